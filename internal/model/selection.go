package model

import "strings"

// NationalSentinel 前端“全国”按钮的文本
const NationalSentinel = "BRASIL"

// Selection 当前选中的地区：National 或 State，二者互斥
type Selection interface {
	isSelection()
	String() string
}

// National 全国视图
type National struct{}

// State 单个州
type State struct {
	Code string
}

func (National) isSelection() {}
func (State) isSelection() {}

func (National) String() string { return NationalSentinel }
func (s State) String() string { return s.Code }

// ParseSelection 将前端传入的 location 参数转为 Selection
// 空值、"BRASIL"、"national" 均视为全国
func ParseSelection(location string) Selection {
	v := strings.TrimSpace(location)
	if v == "" || strings.EqualFold(v, NationalSentinel) || strings.EqualFold(v, "national") {
		return National{}
	}
	return State{Code: strings.ToUpper(v)}
}
