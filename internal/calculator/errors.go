package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStateCode    = errors.New("unknown state code")
	ErrUnknownYear         = errors.New("unknown year")
	ErrUnknownMunicipality = errors.New("unknown municipality")
)

// LookupError 查询的州/年份/市不在数据集中
type LookupError struct {
	Kind error
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Key)
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}
