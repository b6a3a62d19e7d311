// Package datasettest 为其他包的测试提供固定的小型数据快照
package datasettest

import (
	"testing"

	"saldo/internal/dataset"
	"saldo/internal/model"
)

// Record 构造一条已解析记录
func Record(c model.Category, code, name string, values map[int]float64) model.ParsedRecord {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return model.ParsedRecord{
		RawRecord: model.RawRecord{
			Category: c,
			Location: name + "-" + code + "-1",
			Total:    total,
			Values:   values,
		},
		StateCode:    code,
		Municipality: name,
	}
}

// Tables 三个类别的样例记录
//
//	wholesale 1960: SP 30, RJ 5, 全国 35
//	retail    1960: SP 100, RJ 50
//	food      1961 才出现 MG
func Tables() map[model.Category][]model.ParsedRecord {
	return map[model.Category][]model.ParsedRecord{
		model.CategoryWholesale: {
			Record(model.CategoryWholesale, "SP", "São Paulo", map[int]float64{1960: 10, 1961: 1}),
			Record(model.CategoryWholesale, "SP", "Campinas", map[int]float64{1960: 20, 1961: 2}),
			Record(model.CategoryWholesale, "RJ", "Niterói", map[int]float64{1960: 5, 1961: 3}),
		},
		model.CategoryRetail: {
			Record(model.CategoryRetail, "SP", "São Paulo", map[int]float64{1960: 100, 1961: 200}),
			Record(model.CategoryRetail, "RJ", "Niterói", map[int]float64{1960: 50, 1961: 60}),
		},
		model.CategoryFoodService: {
			Record(model.CategoryFoodService, "SP", "Santos", map[int]float64{1960: -1, 1961: 4}),
			Record(model.CategoryFoodService, "RJ", "Niterói", map[int]float64{1960: 2, 1961: 0}),
			Record(model.CategoryFoodService, "MG", "Belo Horizonte", map[int]float64{1961: 9}),
		},
	}
}

// New 构建样例数据快照
func New(t testing.TB) *dataset.Dataset {
	t.Helper()

	d, err := dataset.Build(Tables(), "Saldo Empresas.xlsx")
	if err != nil {
		t.Fatalf("build sample dataset: %v", err)
	}
	return d
}
