package model

import (
	"fmt"
	"strings"
)

// Category 业务类别（每个类别对应工作簿中的一个 Sheet）
type Category string

const (
	CategoryWholesale   Category = "wholesale"    // 批发 Atacado
	CategoryRetail      Category = "retail"       // 零售 Varejo
	CategoryFoodService Category = "food_service" // 餐饮 Negócios de alimentação
)

// Categories 固定顺序的类别列表（汇总卡片、导出均按此顺序）
var Categories = []Category{CategoryWholesale, CategoryRetail, CategoryFoodService}

// DefaultSheetName 返回类别在源工作簿中的默认 Sheet 名
func (c Category) DefaultSheetName() string {
	switch c {
	case CategoryWholesale:
		return "Atacado - Saldo_Atacado"
	case CategoryRetail:
		return "Varejo - Saldo_Varejo"
	case CategoryFoodService:
		return "Negócios de alimentação - Saldo"
	default:
		return ""
	}
}

// Label 展示名
func (c Category) Label() string {
	switch c {
	case CategoryWholesale:
		return "Atacado"
	case CategoryRetail:
		return "Varejo"
	case CategoryFoodService:
		return "Negócios de alimentação"
	default:
		return string(c)
	}
}

// Valid 是否为已知类别
func (c Category) Valid() bool {
	for _, it := range Categories {
		if it == c {
			return true
		}
	}
	return false
}

// ParseCategory 解析类别参数，兼容 "food-service" 与 Sheet 名写法
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "wholesale", "atacado":
		return CategoryWholesale, nil
	case "retail", "varejo":
		return CategoryRetail, nil
	case "food_service", "foodservice", "alimentacao", "alimentação":
		return CategoryFoodService, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), c.DefaultSheetName()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}
