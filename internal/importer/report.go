package importer

import (
	"time"

	"saldo/internal/model"
)

// SheetResult 单个 Sheet 的解析结果
type SheetResult struct {
	SheetName string         `json:"sheetName"`
	Category  model.Category `json:"category"`
	Status    string         `json:"status"` // imported/error
	Records   int            `json:"records"`
	Errors    []string       `json:"errors,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// ImportReport 导入报告
type ImportReport struct {
	Filename          string        `json:"filename"`
	ImportedSheets    int           `json:"importedSheets"`
	TotalRecords      int           `json:"totalRecords"`
	Years             []int         `json:"years"`
	MissingBoundaries []string      `json:"missingBoundaries,omitempty"`
	Duration          time.Duration `json:"duration"`
	Sheets            []SheetResult `json:"sheets"`
}

func (r *ImportReport) add(s SheetResult) {
	r.Sheets = append(r.Sheets, s)
	if s.Status == "imported" {
		r.ImportedSheets++
		r.TotalRecords += s.Records
	}
}
