package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"saldo/internal/model"
)

const (
	// DefaultHeaderRow 表头所在的 Excel 行（第 1 行为标题，第 2 行为年份表头）
	DefaultHeaderRow = 2
	// DefaultColumns 读取的列范围
	DefaultColumns = "A:BK"
)

// SheetSpec 单个类别 Sheet 的读取参数
type SheetSpec struct {
	Category  model.Category
	Sheet     string
	HeaderRow int    // 从 1 开始
	Columns   string // 形如 "A:BK"
}

// DefaultSheetSpec 返回类别的默认读取参数
func DefaultSheetSpec(category model.Category) SheetSpec {
	return SheetSpec{
		Category:  category,
		Sheet:     category.DefaultSheetName(),
		HeaderRow: DefaultHeaderRow,
		Columns:   DefaultColumns,
	}
}

// RawTable 按固定布局读取出的原始表格
type RawTable struct {
	Category   model.Category
	Sheet      string
	Headers    []string
	Rows       [][]string
	RowNumbers []int // 每个数据行对应的 Excel 行号
}

// rowNumber 第 i 个数据行的 Excel 行号
func (t *RawTable) rowNumber(i int) int {
	if i < len(t.RowNumbers) {
		return t.RowNumbers[i]
	}
	return i + 1
}

// ReadSheet 读取一个类别 Sheet：固定表头行 + 列范围，跳过整行为空的数据行
func ReadSheet(f *excelize.File, spec SheetSpec) (*RawTable, error) {
	if spec.HeaderRow <= 0 {
		spec.HeaderRow = DefaultHeaderRow
	}
	if spec.Columns == "" {
		spec.Columns = DefaultColumns
	}

	first, last, err := parseColumnRange(spec.Columns)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(spec.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, &SchemaError{Sheet: spec.Sheet, Kind: ErrMissingSheet}
		}
		return nil, fmt.Errorf("failed to read sheet %q: %w", spec.Sheet, err)
	}

	if len(rows) < spec.HeaderRow {
		return nil, &SchemaError{
			Sheet:  spec.Sheet,
			Kind:   ErrUnexpectedRowCount,
			Detail: fmt.Sprintf("header row %d not found (sheet has %d rows)", spec.HeaderRow, len(rows)),
		}
	}

	table := &RawTable{
		Category: spec.Category,
		Sheet:    spec.Sheet,
		Headers:  sliceColumns(rows[spec.HeaderRow-1], first, last),
	}

	for i := spec.HeaderRow; i < len(rows); i++ {
		row := sliceColumns(rows[i], first, last)
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table, nil
}

// parseColumnRange 解析 "A:BK" 为 1 起始的列号区间
func parseColumnRange(columns string) (int, int, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(columns)), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid column range %q", columns)
	}
	first, err := excelize.ColumnNameToNumber(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", columns, err)
	}
	last, err := excelize.ColumnNameToNumber(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid column range %q: %w", columns, err)
	}
	if last < first {
		return 0, 0, fmt.Errorf("invalid column range %q", columns)
	}
	return first, last, nil
}

// sliceColumns 截取列区间，不足的部分补空串
func sliceColumns(row []string, first, last int) []string {
	out := make([]string, last-first+1)
	for col := first; col <= last; col++ {
		if col-1 < len(row) {
			out[col-first] = row[col-1]
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
