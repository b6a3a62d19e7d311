package util

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// 卡片上的数字按巴西葡语习惯显示：千分位为 "."，小数点为 ","
var displayLanguage = language.BrazilianPortuguese

// FormatBalance 格式化净增数（整数，带千分位；正数带 "+"）
func FormatBalance(value float64) string {
	p := message.NewPrinter(displayLanguage)
	v := math.Round(value)
	s := p.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
	if v > 0 {
		return "+" + s
	}
	return s
}

// FormatNumber 格式化数字，保留至多 digits 位小数
func FormatNumber(value float64, digits int) string {
	p := message.NewPrinter(displayLanguage)
	return p.Sprint(number.Decimal(value, number.MaxFractionDigits(digits)))
}

// FormatPercent 格式化百分比，value 为比例（0.05 即 5%）
func FormatPercent(value float64) string {
	p := message.NewPrinter(displayLanguage)
	s := p.Sprint(number.Percent(value, number.MaxFractionDigits(2)))
	if value > 0 {
		return "+" + s
	}
	return s
}
