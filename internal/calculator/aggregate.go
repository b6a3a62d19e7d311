package calculator

import (
	"strconv"

	"github.com/shopspring/decimal"
	"saldo/internal/model"
)

// AggregateByState 按州代码分组，逐年求和
//
// 分组键即 StateCode 原值；每个州都会带上记录中出现过的全部年份（无数值的年份记 0），
// 与按年份选取地图数据时的口径一致。
func AggregateByState(records []model.ParsedRecord) model.StateAggregate {
	years := collectYears(records)
	sums := make(map[string]map[int]decimal.Decimal)

	for _, r := range records {
		byYear, ok := sums[r.StateCode]
		if !ok {
			byYear = make(map[int]decimal.Decimal, len(years))
			for y := range years {
				byYear[y] = decimal.Zero
			}
			sums[r.StateCode] = byYear
		}
		for y, v := range r.Values {
			byYear[y] = byYear[y].Add(decimal.NewFromFloat(v))
		}
	}

	category := categoryOf(records)
	out := make(model.StateAggregate, len(sums))
	for code, byYear := range sums {
		out[code] = model.NewYearSeries(category, model.LevelState, code, toFloats(byYear))
	}
	return out
}

// NationalTotal 全国合计：所有州逐年相加
func NationalTotal(aggregate model.StateAggregate) model.YearSeries {
	sums := make(map[int]decimal.Decimal)
	var category model.Category
	for _, code := range aggregate.Codes() {
		s := aggregate[code]
		if category == "" {
			category = s.Category
		}
		for _, p := range s.Points {
			sums[p.Year] = sums[p.Year].Add(decimal.NewFromFloat(p.Value))
		}
	}
	return model.NewYearSeries(category, model.LevelNational, "", toFloats(sums))
}

// NationalTotalFromRecords 全国合计：直接对全部记录逐年相加
func NationalTotalFromRecords(records []model.ParsedRecord) model.YearSeries {
	sums := make(map[int]decimal.Decimal)
	for y := range collectYears(records) {
		sums[y] = decimal.Zero
	}
	for _, r := range records {
		for y, v := range r.Values {
			sums[y] = sums[y].Add(decimal.NewFromFloat(v))
		}
	}
	return model.NewYearSeries(categoryOf(records), model.LevelNational, "", toFloats(sums))
}

// SeriesForYear 某一年各州的合计值（地图按州着色，必须使用分组后的值）
func SeriesForYear(aggregate model.StateAggregate, year int) (map[string]float64, error) {
	out := make(map[string]float64, len(aggregate))
	found := false
	for code, s := range aggregate {
		v, ok := s.Lookup(year)
		if ok {
			found = true
		}
		out[code] = v
	}
	if !found {
		return nil, &LookupError{Kind: ErrUnknownYear, Key: strconv.Itoa(year)}
	}
	return out, nil
}

// StateSeries 单个州的逐年合计
func StateSeries(aggregate model.StateAggregate, code string) (model.YearSeries, error) {
	s, ok := aggregate[code]
	if !ok {
		return model.YearSeries{}, &LookupError{Kind: ErrUnknownStateCode, Key: code}
	}
	return s, nil
}

// ValueAt 序列在某年的值
func ValueAt(series model.YearSeries, year int) (float64, error) {
	v, ok := series.Lookup(year)
	if !ok {
		return 0, &LookupError{Kind: ErrUnknownYear, Key: strconv.Itoa(year)}
	}
	return v, nil
}

// MunicipalitySeries 单个市的逐年值（同名多行时合并）
func MunicipalitySeries(records []model.ParsedRecord, code, municipality string) (model.YearSeries, error) {
	var matched []model.ParsedRecord
	for _, r := range records {
		if r.StateCode == code && r.Municipality == municipality {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return model.YearSeries{}, &LookupError{Kind: ErrUnknownMunicipality, Key: municipality + "-" + code}
	}

	series := NationalTotalFromRecords(matched)
	series.Level = model.LevelMunicipality
	series.Key = municipality
	return series, nil
}

func collectYears(records []model.ParsedRecord) map[int]struct{} {
	years := make(map[int]struct{})
	for _, r := range records {
		for y := range r.Values {
			years[y] = struct{}{}
		}
	}
	return years
}

func categoryOf(records []model.ParsedRecord) model.Category {
	if len(records) == 0 {
		return ""
	}
	return records[0].Category
}

func toFloats(sums map[int]decimal.Decimal) map[int]float64 {
	out := make(map[int]float64, len(sums))
	for y, d := range sums {
		out[y] = d.InexactFloat64()
	}
	return out
}
