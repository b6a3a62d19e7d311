// Package location 解析源表中 "<市名>-<UF>-<序号>" 形式的地点标签
package location

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrMissingStateCode   = errors.New("missing state code")
	ErrAmbiguousStateCode = errors.New("ambiguous state code")
	ErrUnknownStateCode   = errors.New("unknown state code")
	ErrTrailingText       = errors.New("unexpected text after state code")
	ErrEmptyMunicipality  = errors.New("empty municipality name")
)

// ParseError 地点标签解析失败
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse location %q: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Location 解析结果
type Location struct {
	StateCode    string `json:"stateCode"`
	Municipality string `json:"municipality"`
}

// stateGroupPattern 匹配 "-UF-数字" 分组，连字符两侧允许空白
var stateGroupPattern = regexp.MustCompile(`(?i)\s*-\s*([a-z]{2})\s*-\s*(\d+)`)

// Parse 解析地点标签
//
// 标签必须以唯一的 "-UF-数字" 分组结尾，分组之前的部分即市名（保留市名内部的
// 连字符与空格，如 "Embu-Guaçu"）。UF 统一转为大写并校验是否为合法联邦单位。
func Parse(label string) (Location, error) {
	s := strings.TrimSpace(norm.NFC.String(label))

	matches := stateGroupPattern.FindAllStringSubmatchIndex(s, -1)
	switch {
	case len(matches) == 0:
		return Location{}, &ParseError{Label: label, Err: ErrMissingStateCode}
	case len(matches) > 1:
		return Location{}, &ParseError{Label: label, Err: ErrAmbiguousStateCode}
	}

	m := matches[0]
	if strings.TrimSpace(s[m[1]:]) != "" {
		return Location{}, &ParseError{Label: label, Err: ErrTrailingText}
	}

	code := strings.ToUpper(s[m[2]:m[3]])
	if !IsStateCode(code) {
		return Location{}, &ParseError{Label: label, Err: fmt.Errorf("%w: %s", ErrUnknownStateCode, code)}
	}

	name := strings.TrimSpace(strings.TrimRight(s[:m[0]], " -\t"))
	if name == "" {
		return Location{}, &ParseError{Label: label, Err: ErrEmptyMunicipality}
	}

	return Location{StateCode: code, Municipality: name}, nil
}
