package parser

import "saldo/internal/model"

// SheetRecognitionResult Sheet 识别结果
type SheetRecognitionResult struct {
	SheetName  string         `json:"sheetName"`
	Category   model.Category `json:"category,omitempty"` // 无法识别时为空
	Confidence float64        `json:"confidence"`         // 置信度 0-1
}

// Recognized 是否识别出类别
func (r SheetRecognitionResult) Recognized() bool {
	return r.Category != ""
}
