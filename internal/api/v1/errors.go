package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"saldo/internal/calculator"
	"saldo/internal/chart"
	"saldo/internal/dataset"
	"saldo/internal/model"
)

// errBadRequest 参数错误
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// writeError 将错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var lookupErr *calculator.LookupError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, dataset.ErrUnknownCategory):
		status = http.StatusBadRequest
	case errors.As(err, &lookupErr), errors.Is(err, chart.ErrNoData):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func categoryParam(c *gin.Context) (model.Category, error) {
	raw := c.Query("category")
	if raw == "" {
		return "", badRequest("category is required")
	}
	cat, err := model.ParseCategory(raw)
	if err != nil {
		return "", badRequest("%v", err)
	}
	return cat, nil
}

// yearParam 未指定时取数据集最新年份
func (h *Handler) yearParam(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		years := h.ds.Years()
		if len(years) == 0 {
			return 0, badRequest("year is required")
		}
		return years[len(years)-1], nil
	}
	year, err := strconv.Atoi(strings.TrimSuffix(raw, ".0"))
	if err != nil {
		return 0, badRequest("invalid year %q", raw)
	}
	return year, nil
}

func selectionParam(c *gin.Context) model.Selection {
	return model.ParseSelection(c.Query("location"))
}
