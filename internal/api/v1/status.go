package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"saldo/internal/location"
	"saldo/internal/model"
)

// StatusResponse 数据集状态
type StatusResponse struct {
	SnapshotID string                 `json:"snapshotId"`
	Source     string                 `json:"source"`
	BuiltAt    time.Time              `json:"builtAt"`
	Records    map[model.Category]int `json:"records"`
	FirstYear  int                    `json:"firstYear"`
	LastYear   int                    `json:"lastYear"`
	States     int                    `json:"states"`
	HasGeo     bool                   `json:"hasGeo"`
}

// GetStatus 获取数据集状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		SnapshotID: h.ds.ID.String(),
		Source:     h.ds.Source,
		BuiltAt:    h.ds.BuiltAt,
		Records:    make(map[model.Category]int, len(model.Categories)),
		States:     len(h.ds.States()),
		HasGeo:     h.geo != nil,
	}
	for _, cat := range model.Categories {
		resp.Records[cat] = h.ds.RecordCount(cat)
	}
	if years := h.ds.Years(); len(years) > 0 {
		resp.FirstYear = years[0]
		resp.LastYear = years[len(years)-1]
	}
	c.JSON(http.StatusOK, resp)
}

// ListYears 可选年份
// GET /api/years
func (h *Handler) ListYears(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.ds.Years()})
}

type categoryItem struct {
	ID    model.Category `json:"id"`
	Label string         `json:"label"`
	Sheet string         `json:"sheet"`
}

// ListCategories 类别列表
// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	items := make([]categoryItem, 0, len(model.Categories))
	for _, cat := range model.Categories {
		items = append(items, categoryItem{ID: cat, Label: cat.Label(), Sheet: cat.DefaultSheetName()})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type stateItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListStates 地区下拉选项：首项为全国
// GET /api/states
func (h *Handler) ListStates(c *gin.Context) {
	states := h.ds.States()
	items := make([]stateItem, 0, len(states)+1)
	items = append(items, stateItem{Code: model.NationalSentinel, Name: "Brasil"})
	for _, code := range states {
		name, _ := location.StateName(code)
		items = append(items, stateItem{Code: code, Name: name})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListMunicipalities 某州的市列表
// GET /api/states/:code/municipalities?category=
func (h *Handler) ListMunicipalities(c *gin.Context) {
	cat, err := categoryParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	items, err := h.ds.Municipalities(cat, code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": code, "category": cat, "items": items})
}
