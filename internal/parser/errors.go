package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSheet       = errors.New("missing sheet")
	ErrMissingColumn      = errors.New("missing column")
	ErrDuplicateColumn    = errors.New("duplicate column")
	ErrUnexpectedRowCount = errors.New("unexpected row count")
)

// SchemaError 源表布局与约定不符
type SchemaError struct {
	Sheet  string
	Kind   error
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Kind)
	}
	return fmt.Sprintf("sheet %q: %v: %s", e.Sheet, e.Kind, e.Detail)
}

func (e *SchemaError) Unwrap() error {
	return e.Kind
}

// RowError 某一数据行处理失败（通常包装 location.ParseError）
type RowError struct {
	Sheet string
	Index int // 数据行下标（从 0 开始，不含表头）
	Row   int // Excel 行号
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d (index %d): %v", e.Sheet, e.Row, e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
