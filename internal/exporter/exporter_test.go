package exporter

import (
	"testing"

	"saldo/internal/dataset/datasettest"
	"saldo/internal/model"
)

func TestExport_CategorySheets(t *testing.T) {
	t.Parallel()

	var events []ProgressEvent
	f, err := NewExporter(datasettest.New(t)).Export(ExportOptions{
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Atacado" {
		t.Fatalf("sheets=%v", sheets)
	}

	rows, err := f.GetRows("Atacado")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	// 表头 + RJ/SP + 全国；MG 只出现在餐饮类别
	if len(rows) != 4 {
		t.Fatalf("rows=%d: %v", len(rows), rows)
	}
	if rows[0][0] != "UF" || rows[0][2] != "1960" || rows[0][3] != "1961" {
		t.Fatalf("header=%v", rows[0])
	}
	if rows[1][0] != "RJ" || rows[1][2] != "5" {
		t.Fatalf("RJ row=%v", rows[1])
	}
	if rows[2][0] != "SP" || rows[2][1] != "São Paulo" || rows[2][2] != "30" || rows[2][3] != "3" {
		t.Fatalf("SP row=%v", rows[2])
	}
	if rows[3][0] != model.NationalSentinel || rows[3][2] != "35" || rows[3][3] != "6" {
		t.Fatalf("national row=%v", rows[3])
	}

	food, _ := f.GetRows("Negócios de alimentação")
	if food[1][0] != "MG" || food[1][2] != "0" || food[1][3] != "9" {
		t.Fatalf("MG zero-filled row=%v", food[1])
	}

	if last := events[len(events)-1]; last.Percent != 100 || last.Stage != "done" {
		t.Fatalf("last progress=%+v", last)
	}
}

func TestExport_Municipalities(t *testing.T) {
	t.Parallel()

	f, err := NewExporter(datasettest.New(t)).Export(ExportOptions{Municipalities: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(MunicipalitySheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	// 表头 + 8 条记录
	if len(rows) != 9 {
		t.Fatalf("rows=%d", len(rows))
	}
	last := rows[8]
	if last[0] != "Negócios de alimentação" || last[1] != "MG" || last[2] != "Belo Horizonte" {
		t.Fatalf("last row=%v", last)
	}
	// 1960 没有数据留空
	if last[4] != "" || last[5] != "9" {
		t.Fatalf("values=%v", last[3:])
	}
}
