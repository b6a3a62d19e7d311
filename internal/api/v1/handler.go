package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"saldo/internal/dataset"
	"saldo/internal/geo"
)

// Handler V1 API 处理器，持有只读数据快照
type Handler struct {
	ds  *dataset.Dataset
	geo *geo.Boundaries
}

// NewHandler 创建 V1 API 处理器；boundaries 可为 nil
func NewHandler(ds *dataset.Dataset, boundaries *geo.Boundaries) *Handler {
	return &Handler{
		ds:  ds,
		geo: boundaries,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.Use(h.etag)

	// 数据集信息
	router.GET("/status", h.GetStatus)
	router.GET("/years", h.ListYears)
	router.GET("/categories", h.ListCategories)
	router.GET("/states", h.ListStates)
	router.GET("/states/:code/municipalities", h.ListMunicipalities)

	// 查询
	router.GET("/summary", h.GetSummary)
	router.GET("/series", h.GetSeries)
	router.GET("/choropleth", h.GetChoropleth)
	router.GET("/municipalities/series", h.GetMunicipalitySeries)

	// 地图边界
	router.GET("/geo", h.GetGeo)

	// 图表与导出
	router.GET("/charts/series.png", h.SeriesChart)
	router.GET("/charts/states.png", h.StatesChart)
	router.GET("/export", h.Export)
}

// etag 数据快照不变，同一快照的响应可由客户端缓存
func (h *Handler) etag(c *gin.Context) {
	tag := h.ds.ETag()
	c.Header("ETag", tag)
	if match := c.GetHeader("If-None-Match"); match == tag {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}
	c.Next()
}
