package model

import "sort"

// RawRecord 源表中的一行（某市某类别的逐年余额）
type RawRecord struct {
	Category Category        `json:"category"`
	Location string          `json:"location"`
	Total    float64         `json:"total"`
	Values   map[int]float64 `json:"values"` // 年份 -> 余额，仅包含数值单元格
	Row      int             `json:"row"`    // Excel 行号（从 1 开始）
}

// ParsedRecord 附加了州代码与市名的记录，加载后不再修改
type ParsedRecord struct {
	RawRecord
	StateCode    string `json:"stateCode"`
	Municipality string `json:"municipality"`
}

// Level 聚合层级
type Level string

const (
	LevelMunicipality Level = "municipality"
	LevelState        Level = "state"
	LevelNational     Level = "national"
)

// Point 单个年份的值
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// YearSeries 按年份严格递增的序列
type YearSeries struct {
	Category Category `json:"category"`
	Level    Level    `json:"level"`
	Key      string   `json:"key,omitempty"` // 州代码或市名；全国为空
	Points   []Point  `json:"points"`
}

// NewYearSeries 由 年份->值 映射构造有序序列
func NewYearSeries(category Category, level Level, key string, values map[int]float64) YearSeries {
	points := make([]Point, 0, len(values))
	for y, v := range values {
		points = append(points, Point{Year: y, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return YearSeries{Category: category, Level: level, Key: key, Points: points}
}

// Years 序列中的年份
func (s YearSeries) Years() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Year
	}
	return out
}

// Lookup 查找某年的值
func (s YearSeries) Lookup(year int) (float64, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Year >= year })
	if i < len(s.Points) && s.Points[i].Year == year {
		return s.Points[i].Value, true
	}
	return 0, false
}

// StateAggregate 州代码 -> 逐年合计
type StateAggregate map[string]YearSeries

// Codes 按字母序排列的州代码
func (a StateAggregate) Codes() []string {
	codes := make([]string, 0, len(a))
	for code := range a {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
