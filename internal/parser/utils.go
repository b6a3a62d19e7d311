package parser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var headerSpaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader 规范化表头：去除首尾空白，内部连续空白压缩为一个空格
func NormalizeHeader(name string) string {
	return headerSpaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
}

// NormalizeColumnName 规范化名称，去除全部空白
func NormalizeColumnName(name string) string {
	return headerSpaceRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// FoldAccents 去除重音符号："Negócios de alimentação" -> "Negocios de alimentacao"
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
