// Package chart 将年度序列与州分布渲染为 PNG 图表
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"saldo/internal/model"
)

// ErrNoData 没有可绘制的数据
var ErrNoData = errors.New("no data to plot")

var (
	lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	barColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// Size 图表尺寸
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize 默认尺寸
var DefaultSize = Size{Width: 10 * vg.Inch, Height: 5 * vg.Inch}

// SeriesPNG 绘制年度折线图
func SeriesPNG(series model.YearSeries, title string, size Size) ([]byte, error) {
	if len(series.Points) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Ano"
	p.Y.Label.Text = "Saldo"

	pts := make(plotter.XYs, len(series.Points))
	for i, pt := range series.Points {
		pts[i].X = float64(pt.Year)
		pts[i].Y = pt.Value
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	points.Color = lineColor
	points.Radius = vg.Points(2)

	p.Add(plotter.NewGrid(), line, points)
	p.X.Tick.Marker = yearTicks{}

	return render(p, size)
}

// StatesPNG 绘制某年各州的柱状图，按州代码排序
func StatesPNG(values map[string]float64, title string, size Size) ([]byte, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	codes := make([]string, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	bars := make(plotter.Values, len(codes))
	minV, maxV := 0.0, 0.0
	for i, code := range codes {
		bars[i] = values[code]
		minV = math.Min(minV, bars[i])
		maxV = math.Max(maxV, bars[i])
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "UF"
	p.Y.Label.Text = "Saldo"

	chart, err := plotter.NewBarChart(bars, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	chart.Color = barColor
	chart.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), chart)
	p.NominalX(codes...)
	p.Y.Min = minV
	p.Y.Max = maxV
	if p.Y.Max == p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}

	return render(p, size)
}

func render(p *plot.Plot, size Size) ([]byte, error) {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	w, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yearTicks 只在整数年份处打刻度
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	lo, hi := int(math.Ceil(min)), int(math.Floor(max))
	step := 1
	for (hi-lo)/step > 12 {
		step *= 5
		if (hi-lo)/step <= 12 {
			break
		}
		step *= 2
	}

	var ticks []plot.Tick
	for y := lo; y <= hi; y++ {
		label := ""
		if (y-lo)%step == 0 {
			label = fmt.Sprintf("%d", y)
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: label})
	}
	return ticks
}
