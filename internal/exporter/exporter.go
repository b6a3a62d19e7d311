package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"saldo/internal/dataset"
	"saldo/internal/location"
	"saldo/internal/model"
)

// MunicipalitySheet 明细 Sheet 名称
const MunicipalitySheet = "Municípios"

// Exporter 聚合结果导出器
//
// 每个类别一个 Sheet：行为州（按代码排序），列为年份，末行为全国合计；
// 可选追加一个市镇明细 Sheet。
type Exporter struct {
	ds *dataset.Dataset
}

// NewExporter 创建导出器
func NewExporter(ds *dataset.Dataset) *Exporter {
	return &Exporter{ds: ds}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Municipalities bool
	Progress       func(ProgressEvent)
}

// Export 生成工作簿，调用方负责 Close
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	steps := len(model.Categories)
	if opts.Municipalities {
		steps++
	}

	for i, c := range model.Categories {
		reportProgress(opts.Progress, i*100/steps, c.Label())
		if err := e.writeCategorySheet(f, c, header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if opts.Municipalities {
		reportProgress(opts.Progress, len(model.Categories)*100/steps, MunicipalitySheet)
		if err := e.writeMunicipalitySheet(f, header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "done")
	return f, nil
}

func (e *Exporter) writeCategorySheet(f *excelize.File, c model.Category, headerStyle int) error {
	cd, err := e.ds.Category(c)
	if err != nil {
		return err
	}

	sheet := c.Label()
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("创建 Sheet %s 失败: %w", sheet, err)
	}

	years := e.ds.Years()
	header := make([]interface{}, 0, len(years)+2)
	header = append(header, "UF", "Estado")
	for _, y := range years {
		header = append(header, y)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, code := range cd.States.Codes() {
		name, _ := location.StateName(code)
		line := append([]interface{}{code, name}, seriesRow(cd.States[code], years)...)
		if err := f.SetSheetRow(sheet, cellName(1, row), &line); err != nil {
			return err
		}
		row++
	}

	national := append([]interface{}{model.NationalSentinel, "Brasil"}, seriesRow(cd.National, years)...)
	if err := f.SetSheetRow(sheet, cellName(1, row), &national); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(header), 1), headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, row), cellName(len(header), row), headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 22); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}

func (e *Exporter) writeMunicipalitySheet(f *excelize.File, headerStyle int) error {
	sheet := MunicipalitySheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("创建 Sheet %s 失败: %w", sheet, err)
	}

	years := e.ds.Years()
	header := make([]interface{}, 0, len(years)+4)
	header = append(header, "Categoria", "UF", "Município", "Total")
	for _, y := range years {
		header = append(header, y)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, c := range model.Categories {
		cd, err := e.ds.Category(c)
		if err != nil {
			return err
		}
		for _, r := range cd.Records {
			line := make([]interface{}, 0, len(header))
			line = append(line, c.Label(), r.StateCode, r.Municipality, r.Total)
			for _, y := range years {
				if v, ok := r.Values[y]; ok {
					line = append(line, v)
				} else {
					line = append(line, nil)
				}
			}
			if err := f.SetSheetRow(sheet, cellName(1, row), &line); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetCellStyle(sheet, "A1", cellName(len(header), 1), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 28)
}

// seriesRow 按年份展开序列，缺失年份留空
func seriesRow(s model.YearSeries, years []int) []interface{} {
	out := make([]interface{}, len(years))
	for i, y := range years {
		if v, ok := s.Lookup(y); ok {
			out[i] = v
		}
	}
	return out
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
