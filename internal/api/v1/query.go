package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"saldo/internal/dataset"
	"saldo/internal/util"
)

type summaryCard struct {
	dataset.Card
	Display string `json:"display"`
}

// GetSummary 三个类别的汇总卡片
// GET /api/summary?location=&year=
func (h *Handler) GetSummary(c *gin.Context) {
	year, err := h.yearParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sel := selectionParam(c)

	cards, err := h.ds.Summary(sel, year)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]summaryCard, 0, len(cards))
	for _, card := range cards {
		items = append(items, summaryCard{Card: card, Display: util.FormatBalance(card.Value)})
	}
	c.JSON(http.StatusOK, gin.H{
		"location": sel.String(),
		"year":     year,
		"items":    items,
	})
}

// GetSeries 折线图数据
// GET /api/series?category=&location=
func (h *Handler) GetSeries(c *gin.Context) {
	cat, err := categoryParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	series, err := h.ds.Series(cat, selectionParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetChoropleth 地图数据：州代码 -> 合计
// GET /api/choropleth?category=&year=
func (h *Handler) GetChoropleth(c *gin.Context) {
	cat, err := categoryParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	year, err := h.yearParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	values, err := h.ds.Choropleth(cat, year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category": cat,
		"year":     year,
		"values":   values,
	})
}

// GetMunicipalitySeries 单个市的逐年数据
// GET /api/municipalities/series?category=&state=&name=
func (h *Handler) GetMunicipalitySeries(c *gin.Context) {
	cat, err := categoryParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	state := strings.ToUpper(strings.TrimSpace(c.Query("state")))
	name := strings.TrimSpace(c.Query("name"))
	if state == "" || name == "" {
		writeError(c, badRequest("state and name are required"))
		return
	}

	series, err := h.ds.Municipality(cat, state, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetGeo 州边界 GeoJSON（原样返回）
// GET /api/geo
func (h *Handler) GetGeo(c *gin.Context) {
	if h.geo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geojson not loaded"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", h.geo.Raw())
}
