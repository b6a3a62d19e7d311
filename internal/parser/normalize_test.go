package parser

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"saldo/internal/location"
	"saldo/internal/model"
)

func buildCategoryWorkbook(t *testing.T, sheet string, headers []interface{}, rows [][]interface{}) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })

	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	if _, err := wb.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet %s failed: %v", sheet, err)
	}
	if defaultSheet != "" && defaultSheet != sheet {
		_ = wb.DeleteSheet(defaultSheet)
	}

	title := []interface{}{"Saldo de empresas"}
	if err := wb.SetSheetRow(sheet, "A1", &title); err != nil {
		t.Fatalf("SetSheetRow title failed: %v", err)
	}
	if err := wb.SetSheetRow(sheet, "A2", &headers); err != nil {
		t.Fatalf("SetSheetRow headers failed: %v", err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := wb.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow %s failed: %v", cell, err)
		}
	}
	return wb
}

func TestReadSheetAndNormalize(t *testing.T) {
	t.Parallel()

	sheet := model.CategoryWholesale.DefaultSheetName()
	wb := buildCategoryWorkbook(t, sheet,
		[]interface{}{"", 1960, 1961, "Total"},
		[][]interface{}{
			{"São Paulo-SP-1", 10, 1, 11},
			{"Campinas-SP-1", 20, 2, 22},
			{"Niterói-RJ-1", 5, "", 5},
			{"Total", 35, 3, 38},
		},
	)

	table, err := ReadSheet(wb, SheetSpec{Category: model.CategoryWholesale, Sheet: sheet, HeaderRow: 2, Columns: "A:D"})
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}
	if len(table.Rows) != 4 {
		t.Fatalf("rows=%d, want 4", len(table.Rows))
	}

	records, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d, want 3", len(records))
	}

	sp := records[0]
	if sp.StateCode != "SP" || sp.Municipality != "São Paulo" || sp.Location != "São Paulo-SP-1" {
		t.Fatalf("unexpected record: %+v", sp)
	}
	if sp.Values[1960] != 10 || sp.Values[1961] != 1 || sp.Total != 11 {
		t.Fatalf("unexpected values: %+v total=%v", sp.Values, sp.Total)
	}
	if sp.Row != 3 {
		t.Fatalf("row=%d, want 3", sp.Row)
	}

	rj := records[2]
	if _, ok := rj.Values[1961]; ok {
		t.Fatalf("blank cell should not produce a value: %+v", rj.Values)
	}
}

func TestReadSheet_SkipsBlankRowsAndKeepsRowNumbers(t *testing.T) {
	t.Parallel()

	sheet := "Varejo - Saldo_Varejo"
	wb := buildCategoryWorkbook(t, sheet,
		[]interface{}{"", 2020, "Total"},
		[][]interface{}{
			{"Recife-PE-1", 7, 7},
			{},
			{"Olinda-PE-1", 3, 3},
			{"Total", 10, 10},
		},
	)

	table, err := ReadSheet(wb, SheetSpec{Sheet: sheet, Columns: "A:C"})
	if err != nil {
		t.Fatalf("ReadSheet failed: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows=%d, want 3", len(table.Rows))
	}
	want := []int{3, 5, 6}
	for i, n := range want {
		if table.RowNumbers[i] != n {
			t.Fatalf("RowNumbers=%v, want %v", table.RowNumbers, want)
		}
	}
}

func TestReadSheet_MissingSheet(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })

	_, err := ReadSheet(wb, DefaultSheetSpec(model.CategoryFoodService))
	if !errors.Is(err, ErrMissingSheet) {
		t.Fatalf("err=%v, want ErrMissingSheet", err)
	}
}

func TestNormalize_DropsExactlyOneRow(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 6; n++ {
		table := &RawTable{
			Sheet:   "s",
			Headers: []string{"Unnamed: 0", "1960", "Total"},
		}
		for i := 0; i < n; i++ {
			table.Rows = append(table.Rows, []string{"Curitiba-PR-1", "1", "1"})
		}

		records, err := Normalize(table)
		if err != nil {
			t.Fatalf("n=%d Normalize failed: %v", n, err)
		}
		if len(records) != n-1 {
			t.Fatalf("n=%d records=%d, want %d", n, len(records), n-1)
		}
	}
}

func TestNormalize_ParseErrorCarriesRowIndex(t *testing.T) {
	t.Parallel()

	table := &RawTable{
		Sheet:   "Atacado - Saldo_Atacado",
		Headers: []string{"", "1960", "Total"},
		Rows: [][]string{
			{"Manaus-AM-1", "1", "1"},
			{"Sem código", "2", "2"},
			{"Belém-PA-1", "3", "3"},
			{"Total", "6", "6"},
		},
		RowNumbers: []int{3, 4, 5, 6},
	}

	_, err := Normalize(table)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("err=%v, want *RowError", err)
	}
	if rowErr.Index != 1 || rowErr.Row != 4 {
		t.Fatalf("index=%d row=%d, want 1/4", rowErr.Index, rowErr.Row)
	}
	if !errors.Is(err, location.ErrMissingStateCode) {
		t.Fatalf("err=%v, want ErrMissingStateCode", err)
	}
	var parseErr *location.ParseError
	if !errors.As(err, &parseErr) || parseErr.Label != "Sem código" {
		t.Fatalf("want wrapped *location.ParseError, got %v", err)
	}
}

func TestNormalize_SchemaErrors(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"Natal-RN-1", "1", "1"}, {"Total", "1", "1"}}

	cases := []struct {
		name    string
		headers []string
		rows    [][]string
		want    error
	}{
		{"no total", []string{"", "1960", "1961"}, rows, ErrMissingColumn},
		{"no location", []string{"Município", "1960", "Total"}, rows, ErrMissingColumn},
		{"no years", []string{"", "Ano", "Total"}, rows, ErrMissingColumn},
		{"duplicate year", []string{"", "1960", "1960", "Total"}, rows, ErrDuplicateColumn},
		{"no rows", []string{"", "1960", "Total"}, nil, ErrUnexpectedRowCount},
	}

	for _, tc := range cases {
		_, err := Normalize(&RawTable{Sheet: tc.name, Headers: tc.headers, Rows: tc.rows})
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v, want %v", tc.name, err, tc.want)
		}
		var se *SchemaError
		if !errors.As(err, &se) || se.Sheet != tc.name {
			t.Fatalf("%s: want *SchemaError, got %T", tc.name, err)
		}
	}
}

func TestNormalize_NumericCellsOnly(t *testing.T) {
	t.Parallel()

	table := &RawTable{
		Sheet:   "s",
		Headers: []string{"", "1960", "1961", "1962", "Total", "Observação"},
		Rows: [][]string{
			{"Goiânia-GO-1", "1,234.5", "n/d", "NaN", "1234.5", "texto"},
			{"Total", "1234.5", "", "", "1234.5", ""},
		},
	}

	records, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	values := records[0].Values
	if len(values) != 1 || values[1960] != 1234.5 {
		t.Fatalf("values=%v, want only 1960=1234.5", values)
	}
}

func TestParseColumnRange(t *testing.T) {
	t.Parallel()

	first, last, err := parseColumnRange("A:BK")
	if err != nil || first != 1 || last != 63 {
		t.Fatalf("A:BK => %d,%d,%v", first, last, err)
	}
	if _, _, err := parseColumnRange("BK:A"); err == nil {
		t.Fatalf("reversed range should fail")
	}
	if _, _, err := parseColumnRange("A"); err == nil {
		t.Fatalf("single column should fail")
	}
}
