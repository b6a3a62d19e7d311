package parser

import (
	"strings"

	"saldo/internal/model"
)

// 低于该置信度视为无法识别
const minConfidence = 0.5

// 各类别 Sheet 名关键词（已去除重音并转小写）
var categoryKeywords = map[model.Category][]string{
	model.CategoryWholesale:   {"atacado", "wholesale"},
	model.CategoryRetail:      {"varejo", "retail"},
	model.CategoryFoodService: {"alimentacao", "food"},
}

// SheetRecognizer Sheet 类别识别器
//
// 源工作簿的 Sheet 名偶尔会被改动（大小写、重音、后缀），配置的名称找不到时
// 依据 Sheet 名关键词与表头形状推断类别。
type SheetRecognizer struct{}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize 识别单个 Sheet 的类别
func (r *SheetRecognizer) Recognize(sheetName string, headers []string) SheetRecognitionResult {
	result := SheetRecognitionResult{SheetName: sheetName}

	name := FoldAccents(strings.ToLower(NormalizeColumnName(sheetName)))
	for _, c := range model.Categories {
		if ContainsAny(name, categoryKeywords[c]) {
			result.Category = c
			result.Confidence = 0.6
			break
		}
	}
	if !result.Recognized() {
		return result
	}

	if strings.Contains(name, "saldo") {
		result.Confidence += 0.2
	}
	if headers != nil {
		if _, err := classifyHeaders(sheetName, headers); err == nil {
			result.Confidence += 0.2
		} else {
			result.Confidence -= 0.2
		}
	}

	if result.Confidence < minConfidence {
		result.Category = ""
	}
	return result
}

// RecognizeAll 为每个类别挑选置信度最高的 Sheet
func (r *SheetRecognizer) RecognizeAll(sheets map[string][]string) map[model.Category]SheetRecognitionResult {
	best := make(map[model.Category]SheetRecognitionResult, len(model.Categories))
	for name, headers := range sheets {
		res := r.Recognize(name, headers)
		if !res.Recognized() {
			continue
		}
		cur, ok := best[res.Category]
		if !ok || res.Confidence > cur.Confidence ||
			(res.Confidence == cur.Confidence && res.SheetName < cur.SheetName) {
			best[res.Category] = res
		}
	}
	return best
}
