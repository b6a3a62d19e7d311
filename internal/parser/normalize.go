package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"saldo/internal/location"
	"saldo/internal/model"
)

// 规范化后的固定列名；这些列永远不参与逐年求和
const (
	ColumnLocation     = "location"
	ColumnTotal        = "total"
	ColumnMunicipality = "municipality_name"
	ColumnStateCode    = "state_code"
)

// 源文件导出时对无表头列使用的占位名
const unnamedPrefix = "Unnamed:"

const (
	minYear = 1900
	maxYear = 2100
)

// columnLayout 表头识别结果
type columnLayout struct {
	names       []string // 载入 DataFrame 时使用的唯一列名
	locationCol string
	totalCol    string
	years       []int
	yearCols    map[int]string
}

// Normalize 将原始表格转为 ParsedRecord 列表
//
// 步骤：地点列重命名为 location；删除最后一行（预先计算好的合计行）；
// 对其余每一行解析地点标签。任何一行解析失败都会中止并返回带行号的错误。
func Normalize(table *RawTable) ([]model.ParsedRecord, error) {
	layout, err := classifyHeaders(table.Sheet, table.Headers)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		return nil, &SchemaError{
			Sheet:  table.Sheet,
			Kind:   ErrUnexpectedRowCount,
			Detail: "no data rows (expected at least the summary row)",
		}
	}

	// 只有合计行
	if len(table.Rows) == 1 {
		return []model.ParsedRecord{}, nil
	}

	records := make([][]string, 0, len(table.Rows)+1)
	records = append(records, layout.names)
	for _, row := range table.Rows {
		padded := make([]string, len(layout.names))
		copy(padded, row)
		records = append(records, padded)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to load sheet %q: %w", table.Sheet, df.Err)
	}

	df = df.Rename(ColumnLocation, layout.locationCol)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to rename location column: %w", df.Err)
	}

	// 删除合计行
	keep := make([]int, df.Nrow()-1)
	for i := range keep {
		keep[i] = i
	}
	df = df.Subset(keep)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to drop summary row: %w", df.Err)
	}

	locations := df.Col(ColumnLocation).Records()
	totals := df.Col(layout.totalCol).Records()
	yearValues := make(map[int][]string, len(layout.years))
	for _, y := range layout.years {
		yearValues[y] = df.Col(layout.yearCols[y]).Records()
	}

	out := make([]model.ParsedRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		label := strings.TrimSpace(locations[i])
		loc, err := location.Parse(label)
		if err != nil {
			return nil, &RowError{
				Sheet: table.Sheet,
				Index: i,
				Row:   table.rowNumber(i),
				Err:   err,
			}
		}

		values := make(map[int]float64, len(layout.years))
		for _, y := range layout.years {
			if v, ok := parseNumber(yearValues[y][i]); ok {
				values[y] = v
			}
		}
		total, _ := parseNumber(totals[i])

		out = append(out, model.ParsedRecord{
			RawRecord: model.RawRecord{
				Category: table.Category,
				Location: label,
				Total:    total,
				Values:   values,
				Row:      table.rowNumber(i),
			},
			StateCode:    loc.StateCode,
			Municipality: loc.Municipality,
		})
	}

	return out, nil
}

// classifyHeaders 识别地点列、合计列与年份列
func classifyHeaders(sheet string, headers []string) (*columnLayout, error) {
	layout := &columnLayout{
		names:    make([]string, len(headers)),
		yearCols: make(map[int]string),
	}
	seen := make(map[string]bool, len(headers))

	for i, raw := range headers {
		h := NormalizeHeader(raw)
		name := h
		switch {
		case h == "" || strings.HasPrefix(h, unnamedPrefix):
			name = fmt.Sprintf("%s %d", unnamedPrefix, i)
			if layout.locationCol == "" {
				layout.locationCol = name
			}
		case strings.EqualFold(h, ColumnLocation):
			name = fmt.Sprintf("%s %d", unnamedPrefix, i)
			if layout.locationCol == "" {
				layout.locationCol = name
			}
		case strings.EqualFold(h, ColumnTotal):
			if layout.totalCol != "" {
				return nil, &SchemaError{Sheet: sheet, Kind: ErrDuplicateColumn, Detail: raw}
			}
			name = ColumnTotal
			layout.totalCol = name
		default:
			if y, ok := parseYearHeader(h); ok {
				if _, dup := layout.yearCols[y]; dup {
					return nil, &SchemaError{Sheet: sheet, Kind: ErrDuplicateColumn, Detail: raw}
				}
				name = strconv.Itoa(y)
				layout.yearCols[y] = name
				layout.years = append(layout.years, y)
			}
		}
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		layout.names[i] = name
	}

	switch {
	case layout.locationCol == "":
		return nil, &SchemaError{Sheet: sheet, Kind: ErrMissingColumn, Detail: ColumnLocation}
	case layout.totalCol == "":
		return nil, &SchemaError{Sheet: sheet, Kind: ErrMissingColumn, Detail: "Total"}
	case len(layout.years) == 0:
		return nil, &SchemaError{Sheet: sheet, Kind: ErrMissingColumn, Detail: "year columns"}
	}

	return layout, nil
}

// parseYearHeader 年份表头（Excel 中可能以 "1960" 或 "1960.0" 形式出现）
func parseYearHeader(h string) (int, bool) {
	h = strings.TrimSuffix(h, ".0")
	y, err := strconv.Atoi(h)
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}

// parseNumber 解析数值单元格，空值与非数值返回 false
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	s = strings.ReplaceAll(s, " ", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
