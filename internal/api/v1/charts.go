package v1

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"saldo/internal/chart"
	"saldo/internal/exporter"
)

// SeriesChart 折线图 PNG
// GET /api/charts/series.png?category=&location=
func (h *Handler) SeriesChart(c *gin.Context) {
	cat, err := categoryParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sel := selectionParam(c)

	series, err := h.ds.Series(cat, sel)
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := chart.SeriesPNG(series, fmt.Sprintf("%s - %s", cat.Label(), sel), chart.DefaultSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// StatesChart 某年各州柱状图 PNG
// GET /api/charts/states.png?category=&year=
func (h *Handler) StatesChart(c *gin.Context) {
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

	png, err := chart.StatesPNG(values, fmt.Sprintf("%s %d", cat.Label(), year), chart.DefaultSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Export 下载聚合工作簿
// GET /api/export?municipalities=true
func (h *Handler) Export(c *gin.Context) {
	f, err := exporter.NewExporter(h.ds).Export(exporter.ExportOptions{
		Municipalities: c.Query("municipalities") == "true",
	})
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(h.ds.Source))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// buildExportContentDisposition ASCII 文件名加 RFC 5987 编码的原始名称
func buildExportContentDisposition(source string) string {
	name := "saldo-agregado.xlsx"
	if source != "" {
		name = "Agregado - " + source
	}
	return fmt.Sprintf("attachment; filename=\"saldo-agregado.xlsx\"; filename*=UTF-8''%s", url.PathEscape(name))
}
