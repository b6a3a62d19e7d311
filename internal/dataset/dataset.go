// Package dataset 持有加载后不可变的数据快照，并提供面向展示层的查询
//
// Dataset 在进程初始化时构建一次，之后只读；多个请求可以并发读取而无需加锁。
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"saldo/internal/calculator"
	"saldo/internal/model"
)

var (
	ErrMissingCategory = errors.New("missing category")
	ErrUnknownCategory = errors.New("unknown category")
)

// CategoryData 单个类别的记录与聚合结果
type CategoryData struct {
	Category model.Category
	Records  []model.ParsedRecord
	States   model.StateAggregate
	National model.YearSeries
}

// Dataset 不可变数据快照
type Dataset struct {
	ID      uuid.UUID
	BuiltAt time.Time
	Source  string

	categories map[model.Category]*CategoryData
	years      []int
	states     []string
}

// Build 由各类别的规范化记录构建数据快照；三个类别缺一不可
func Build(tables map[model.Category][]model.ParsedRecord, source string) (*Dataset, error) {
	d := &Dataset{
		ID:         uuid.New(),
		BuiltAt:    time.Now(),
		Source:     source,
		categories: make(map[model.Category]*CategoryData, len(model.Categories)),
	}

	years := make(map[int]struct{})
	states := make(map[string]struct{})

	for _, c := range model.Categories {
		records, ok := tables[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCategory, c)
		}

		agg := calculator.AggregateByState(records)
		national := calculator.NationalTotalFromRecords(records)
		national.Category = c
		for code, s := range agg {
			s.Category = c
			agg[code] = s
			states[code] = struct{}{}
		}
		for _, p := range national.Points {
			years[p.Year] = struct{}{}
		}

		d.categories[c] = &CategoryData{
			Category: c,
			Records:  records,
			States:   agg,
			National: national,
		}
	}

	for y := range years {
		d.years = append(d.years, y)
	}
	sort.Ints(d.years)
	for code := range states {
		d.states = append(d.states, code)
	}
	sort.Strings(d.states)

	return d, nil
}

// ETag 快照标识，用于 HTTP 缓存
func (d *Dataset) ETag() string {
	return `"` + d.ID.String() + `"`
}

// Years 所有类别中出现过的年份（升序）
func (d *Dataset) Years() []int {
	return append([]int(nil), d.years...)
}

// States 所有类别中出现过的州代码（字母序）
func (d *Dataset) States() []string {
	return append([]string(nil), d.states...)
}

// Category 获取单个类别的数据
func (d *Dataset) Category(c model.Category) (*CategoryData, error) {
	cd, ok := d.categories[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	return cd, nil
}

// Series 折线图数据：全国走全国合计，州走州合计查找
func (d *Dataset) Series(c model.Category, sel model.Selection) (model.YearSeries, error) {
	cd, err := d.Category(c)
	if err != nil {
		return model.YearSeries{}, err
	}

	switch s := sel.(type) {
	case model.National:
		return cd.National, nil
	case model.State:
		return calculator.StateSeries(cd.States, s.Code)
	default:
		return model.YearSeries{}, fmt.Errorf("unsupported selection %T", sel)
	}
}

// Total 某类别、某地区、某年的合计值
func (d *Dataset) Total(c model.Category, sel model.Selection, year int) (float64, error) {
	series, err := d.Series(c, sel)
	if err != nil {
		return 0, err
	}
	return calculator.ValueAt(series, year)
}

// Choropleth 地图数据：某类别某年各州合计
func (d *Dataset) Choropleth(c model.Category, year int) (map[string]float64, error) {
	cd, err := d.Category(c)
	if err != nil {
		return nil, err
	}
	return calculator.SeriesForYear(cd.States, year)
}

// Card 汇总卡片
type Card struct {
	Category model.Category `json:"category"`
	Label    string         `json:"label"`
	Value    float64        `json:"value"`
}

// Summary 三个类别的汇总卡片，每个类别独立按 sel 取值
func (d *Dataset) Summary(sel model.Selection, year int) ([]Card, error) {
	cards := make([]Card, 0, len(model.Categories))
	for _, c := range model.Categories {
		v, err := d.Total(c, sel, year)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		cards = append(cards, Card{Category: c, Label: c.Label(), Value: v})
	}
	return cards, nil
}

// Municipalities 某类别某州的市名列表（字母序，去重）
func (d *Dataset) Municipalities(c model.Category, code string) ([]string, error) {
	cd, err := d.Category(c)
	if err != nil {
		return nil, err
	}
	if _, err := calculator.StateSeries(cd.States, code); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string
	for _, r := range cd.Records {
		if r.StateCode != code {
			continue
		}
		if _, ok := seen[r.Municipality]; ok {
			continue
		}
		seen[r.Municipality] = struct{}{}
		out = append(out, r.Municipality)
	}
	sort.Strings(out)
	return out, nil
}

// Municipality 单个市的逐年数据
func (d *Dataset) Municipality(c model.Category, code, name string) (model.YearSeries, error) {
	cd, err := d.Category(c)
	if err != nil {
		return model.YearSeries{}, err
	}
	return calculator.MunicipalitySeries(cd.Records, code, name)
}

// RecordCount 某类别的记录数
func (d *Dataset) RecordCount(c model.Category) int {
	cd, ok := d.categories[c]
	if !ok {
		return 0
	}
	return len(cd.Records)
}
