package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"saldo/internal/model"
	"saldo/internal/parser"
	"saldo/internal/source"
)

// FileName 配置文件名
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Excel   ExcelConfig   `toml:"excel"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置；相对路径基于 data_dir 解析
type DataConfig struct {
	DataDir  string `toml:"data_dir"`
	Workbook string `toml:"workbook"` // 本地路径或 s3://bucket/key
	GeoJSON  string `toml:"geojson"`
}

// ExcelConfig 源工作簿布局
type ExcelConfig struct {
	HeaderRow        int    `toml:"header_row"`
	Columns          string `toml:"columns"`
	WholesaleSheet   string `toml:"wholesale_sheet"`
	RetailSheet      string `toml:"retail_sheet"`
	FoodServiceSheet string `toml:"food_service_sheet"`
}

// StorageConfig S3 兼容对象存储
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8050,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:  "data",
			Workbook: "Saldo Empresas.xlsx",
			GeoJSON:  "brazil_geo.json",
		},
		Excel: ExcelConfig{
			HeaderRow:        parser.DefaultHeaderRow,
			Columns:          parser.DefaultColumns,
			WholesaleSheet:   model.CategoryWholesale.DefaultSheetName(),
			RetailSheet:      model.CategoryRetail.DefaultSheetName(),
			FoodServiceSheet: model.CategoryFoodService.DefaultSheetName(),
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func baseDir() string {
	exeDir, err := GetExeDir()
	if err != nil {
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(filepath.Join(baseDir(), FileName))
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置。环境变量优先于文件
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case !os.IsNotExist(err):
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖（.env 由 cmd 在加载配置前读入）
func applyEnv(config *AppConfig) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"SALDO_WORKBOOK", &config.Data.Workbook},
		{"SALDO_GEOJSON", &config.Data.GeoJSON},
		{"SALDO_S3_ENDPOINT", &config.Storage.Endpoint},
		{"SALDO_S3_REGION", &config.Storage.Region},
		{"SALDO_S3_ACCESS_KEY", &config.Storage.AccessKey},
		{"SALDO_S3_SECRET_KEY", &config.Storage.SecretKey},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.target = v
		}
	}
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	return SaveTo(config, filepath.Join(baseDir(), FileName))
}

// SaveTo 保存配置到指定路径
func SaveTo(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir 数据目录的绝对路径
func DataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(baseDir(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及 exports 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := DataDir(config)
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// ResolvePath 解析数据文件路径：s3:// 与绝对路径原样返回，相对路径基于数据目录
func ResolvePath(config *AppConfig, p string) string {
	if p == "" || source.IsRemote(p) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(DataDir(config), p)
}

// SheetSpecs 各类别的 Sheet 读取配置
func (c *AppConfig) SheetSpecs() []parser.SheetSpec {
	names := map[model.Category]string{
		model.CategoryWholesale:   c.Excel.WholesaleSheet,
		model.CategoryRetail:      c.Excel.RetailSheet,
		model.CategoryFoodService: c.Excel.FoodServiceSheet,
	}

	specs := make([]parser.SheetSpec, 0, len(model.Categories))
	for _, cat := range model.Categories {
		spec := parser.DefaultSheetSpec(cat)
		if n := strings.TrimSpace(names[cat]); n != "" {
			spec.Sheet = n
		}
		if c.Excel.HeaderRow > 0 {
			spec.HeaderRow = c.Excel.HeaderRow
		}
		if c.Excel.Columns != "" {
			spec.Columns = c.Excel.Columns
		}
		specs = append(specs, spec)
	}
	return specs
}

// S3 对象存储配置
func (c *AppConfig) S3() source.S3Config {
	return source.S3Config{
		Endpoint:  c.Storage.Endpoint,
		Region:    c.Storage.Region,
		AccessKey: c.Storage.AccessKey,
		SecretKey: c.Storage.SecretKey,
	}
}
