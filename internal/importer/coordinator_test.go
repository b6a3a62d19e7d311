package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"saldo/internal/location"
	"saldo/internal/model"
	"saldo/internal/parser"
	"saldo/internal/source"
)

var sheetRows = map[model.Category][][]interface{}{
	model.CategoryWholesale: {
		{"São Paulo-SP-1", 10, 1, 11},
		{"Campinas-SP-1", 20, 2, 22},
		{"Niterói-RJ-1", 5, 3, 8},
		{"Total", 35, 6, 41},
	},
	model.CategoryRetail: {
		{"São Paulo-SP-1", 100, 200, 300},
		{"Rio de Janeiro-RJ-1", 50, 60, 110},
		{"Total", 150, 260, 410},
	},
	model.CategoryFoodService: {
		{"Santos-SP-1", -1, 4, 3},
		{"Brasília-DF-1", 2, 0, 2},
		{"Total", 1, 4, 5},
	},
}

const testGeoJSON = `{"type": "FeatureCollection", "features": [{"id": "SP"}, {"id": "RJ"}]}`

// writeWorkbook 按真实布局生成工作簿：第 1 行标题，第 2 行表头，最后一行为合计
func writeWorkbook(t *testing.T, rows map[model.Category][][]interface{}) string {
	t.Helper()
	return writeWorkbookNamed(t, rows, nil)
}

func writeWorkbookNamed(t *testing.T, rows map[model.Category][][]interface{}, names map[model.Category]string) string {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	for _, c := range model.Categories {
		data, ok := rows[c]
		if !ok {
			continue
		}
		sheet := c.DefaultSheetName()
		if n, ok := names[c]; ok {
			sheet = n
		}
		if _, err := wb.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet %s failed: %v", sheet, err)
		}
		title := []interface{}{"Saldo de empresas"}
		headers := []interface{}{"", 1960, 1961, "Total"}
		_ = wb.SetSheetRow(sheet, "A1", &title)
		_ = wb.SetSheetRow(sheet, "A2", &headers)
		for i := range data {
			cell, _ := excelize.CoordinatesToCellName(1, i+3)
			if err := wb.SetSheetRow(sheet, cell, &data[i]); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", cell, err)
			}
		}
	}
	_ = wb.DeleteSheet(defaultSheet)

	path := filepath.Join(t.TempDir(), "Saldo Empresas.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func writeGeoJSON(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "brazil_geo.json")
	if err := os.WriteFile(path, []byte(testGeoJSON), 0o644); err != nil {
		t.Fatalf("write geojson: %v", err)
	}
	return path
}

func TestImport_BuildsDataset(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator(source.NewOpener(source.S3Config{}))
	ch := coordinator.Import(context.Background(), ImportOptions{
		Workbook: writeWorkbook(t, sheetRows),
		GeoJSON:  writeGeoJSON(t),
	})

	var (
		result   *Result
		warnings int
		sheets   []string
	)
	for evt := range ch {
		switch evt.Type {
		case "error":
			t.Fatalf("import error event: %s", evt.Message)
		case "warning":
			warnings++
		case "sheet_done":
			sheets = append(sheets, evt.Data.(SheetResult).SheetName)
		case "done":
			result = evt.Data.(*Result)
		}
	}

	if result == nil {
		t.Fatalf("missing done result")
	}
	if len(sheets) != 3 {
		t.Fatalf("sheet_done events=%v", sheets)
	}

	r := result.Report
	if r.Filename != "Saldo Empresas.xlsx" || r.ImportedSheets != 3 || r.TotalRecords != 7 {
		t.Fatalf("unexpected report: %+v", r)
	}
	if !reflect.DeepEqual(r.Years, []int{1960, 1961}) {
		t.Fatalf("years=%v", r.Years)
	}
	if warnings != 1 || !reflect.DeepEqual(r.MissingBoundaries, []string{"DF"}) {
		t.Fatalf("warnings=%d missing=%v", warnings, r.MissingBoundaries)
	}

	total, err := result.Dataset.Total(model.CategoryWholesale, model.National{}, 1960)
	if err != nil || total != 35 {
		t.Fatalf("national wholesale 1960=%v err=%v", total, err)
	}
	sp, err := result.Dataset.Total(model.CategoryWholesale, model.State{Code: "SP"}, 1960)
	if err != nil || sp != 30 {
		t.Fatalf("SP wholesale 1960=%v err=%v", sp, err)
	}
	if result.Boundaries == nil {
		t.Fatalf("boundaries should be loaded")
	}
}

func TestLoad_WithoutGeoJSON(t *testing.T) {
	t.Parallel()

	res, err := NewCoordinator(source.NewOpener(source.S3Config{})).Load(context.Background(), ImportOptions{
		Workbook: writeWorkbook(t, sheetRows),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Boundaries != nil || res.Report.MissingBoundaries != nil {
		t.Fatalf("no boundaries expected: %+v", res.Report)
	}
	if got := res.Dataset.RecordCount(model.CategoryFoodService); got != 2 {
		t.Fatalf("food service records=%d", got)
	}
}

func TestLoad_CustomSheetSpec(t *testing.T) {
	t.Parallel()

	path := writeWorkbookNamed(t, sheetRows, map[model.Category]string{
		model.CategoryRetail: "Varejo",
	})
	coordinator := NewCoordinator(source.NewOpener(source.S3Config{}),
		parser.SheetSpec{Category: model.CategoryRetail, Sheet: "Varejo", HeaderRow: 2, Columns: "A:D"},
	)
	res, err := coordinator.Load(context.Background(), ImportOptions{Workbook: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := res.Report.Sheets[1].SheetName; got != "Varejo" {
		t.Fatalf("retail sheet=%q", got)
	}
	total, err := res.Dataset.Total(model.CategoryRetail, model.National{}, 1961)
	if err != nil || total != 260 {
		t.Fatalf("retail national 1961=%v err=%v", total, err)
	}
}

func TestLoad_RecognizesRenamedSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbookNamed(t, sheetRows, map[model.Category]string{
		model.CategoryFoodService: "Negocios de Alimentacao",
	})

	coordinator := NewCoordinator(source.NewOpener(source.S3Config{}))
	var (
		result     *Result
		recognized bool
	)
	for evt := range coordinator.Import(context.Background(), ImportOptions{Workbook: path}) {
		switch evt.Type {
		case "info":
			if res, ok := evt.Data.(parser.SheetRecognitionResult); ok && res.Category == model.CategoryFoodService {
				recognized = true
			}
		case "done":
			result = evt.Data.(*Result)
		case "error":
			t.Fatalf("import error event: %s", evt.Message)
		}
	}

	if !recognized || result == nil {
		t.Fatalf("recognized=%v result=%v", recognized, result)
	}
	if got := result.Report.Sheets[2].SheetName; got != "Negocios de Alimentacao" {
		t.Fatalf("food service sheet=%q", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	coordinator := NewCoordinator(source.NewOpener(source.S3Config{}))
	ctx := context.Background()

	if _, err := coordinator.Load(ctx, ImportOptions{}); err == nil {
		t.Fatalf("expected error for empty workbook path")
	}

	missing := map[model.Category][][]interface{}{
		model.CategoryWholesale: sheetRows[model.CategoryWholesale],
		model.CategoryRetail:    sheetRows[model.CategoryRetail],
	}
	_, err := coordinator.Load(ctx, ImportOptions{Workbook: writeWorkbook(t, missing)})
	var schemaErr *parser.SchemaError
	if !errors.As(err, &schemaErr) || !errors.Is(err, parser.ErrMissingSheet) {
		t.Fatalf("err=%v, want missing sheet", err)
	}

	bad := map[model.Category][][]interface{}{
		model.CategoryWholesale:   {{"Sem código", 1, 2, 3}, {"Total", 1, 2, 3}},
		model.CategoryRetail:      sheetRows[model.CategoryRetail],
		model.CategoryFoodService: sheetRows[model.CategoryFoodService],
	}
	_, err = coordinator.Load(ctx, ImportOptions{Workbook: writeWorkbook(t, bad)})
	var rowErr *parser.RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 3 || !errors.Is(err, location.ErrMissingStateCode) {
		t.Fatalf("err=%v, want row error at row 3", err)
	}

	_, err = coordinator.Load(ctx, ImportOptions{
		Workbook: writeWorkbook(t, sheetRows),
		GeoJSON:  filepath.Join(t.TempDir(), "nope.json"),
	})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v, want not exist", err)
	}
}
