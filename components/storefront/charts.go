package storefront

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns dashboard aggregates into server-rendered echarts
// markup.
type ChartRenderer struct {
	cache RenderCache
	theme string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// NewChartRenderer builds a renderer for dashboard metrics.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// DashboardCharts is the rendered HTML for each dashboard chart.
type DashboardCharts struct {
	StockBreakdown       string
	RevenuePerProduct    string
	OrdersOverTime       string
	CategoryDistribution string
}

// RenderAll renders the four dashboard charts for the given metrics.
func (r *ChartRenderer) RenderAll(m Metrics) (DashboardCharts, error) {
	hash := metricsHash(m)
	out := DashboardCharts{}
	renders := []struct {
		name   string
		target *string
		render func() (string, error)
	}{
		{"stock", &out.StockBreakdown, func() (string, error) { return r.renderStockBreakdown(m) }},
		{"revenue", &out.RevenuePerProduct, func() (string, error) { return r.renderRevenuePerProduct(m) }},
		{"timeline", &out.OrdersOverTime, func() (string, error) { return r.renderOrdersOverTime(m) }},
		{"category", &out.CategoryDistribution, func() (string, error) { return r.renderCategoryDistribution(m) }},
	}
	for _, item := range renders {
		html, err := r.memoized(item.name+":"+hash, item.render)
		if err != nil {
			return DashboardCharts{}, fmt.Errorf("storefront: render %s chart: %w", item.name, err)
		}
		*item.target = html
	}
	return out, nil
}

func (r *ChartRenderer) memoized(key string, render func() (string, error)) (string, error) {
	if r.cache != nil {
		return r.cache.GetOrRender(key, render)
	}
	return render()
}

func (r *ChartRenderer) renderStockBreakdown(m Metrics) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions("Stock Status", "")...)
	labels := make([]string, len(m.StockBreakdown))
	data := make([]opts.BarData, len(m.StockBreakdown))
	for i, bucket := range m.StockBreakdown {
		labels[i] = string(bucket.Status)
		data[i] = opts.BarData{Name: string(bucket.Status), Value: bucket.Count}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Products", data)
	return renderChart(bar)
}

func (r *ChartRenderer) renderRevenuePerProduct(m Metrics) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions("Revenue per Product", "")...)
	labels := make([]string, len(m.RevenuePerProduct))
	data := make([]opts.BarData, len(m.RevenuePerProduct))
	for i, point := range m.RevenuePerProduct {
		labels[i] = point.Name
		data[i] = opts.BarData{Name: point.Name, Value: point.Revenue}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Revenue", data)
	return renderChart(bar)
}

func (r *ChartRenderer) renderOrdersOverTime(m Metrics) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions("Orders Over Time", "")...)
	labels := make([]string, len(m.OrdersOverTime))
	data := make([]opts.LineData, len(m.OrdersOverTime))
	for i, point := range m.OrdersOverTime {
		labels[i] = point.Date
		data[i] = opts.LineData{Name: point.Date, Value: point.Total}
	}
	line.SetXAxis(labels)
	line.AddSeries("Total", data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) renderCategoryDistribution(m Metrics) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions("Category Distribution", "")...)
	data := make([]opts.PieData, len(m.CategoryDistribution))
	for i, bucket := range m.CategoryDistribution {
		name := bucket.Category
		if name == "" {
			name = "uncategorized"
		}
		data[i] = opts.PieData{Name: name, Value: bucket.Count}
	}
	pie.AddSeries("Categories", data)
	return renderChart(pie)
}

func (r *ChartRenderer) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  r.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
