package freqMotif

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const plotTitle = "Motif and low complexity frequency"

func tableAxis(rows Table) (names []string, values []float64) {
	for _, row := range rows {
		names = append(names, row.Motif.String())
		values = append(values, row.Proportion)
	}
	return
}

// PlotBarPNG draws rows as a bar chart with a dashed line at ratio.
func PlotBarPNG(path, subtitle string, rows Table, ratio float64) error {
	var (
		p             = plot.New()
		names, values = tableAxis(rows)
	)
	p.Title.Text = plotTitle + "\n" + subtitle
	p.X.Label.Text = "Motif"
	p.Y.Label.Text = "Reads (%)"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(14))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2

	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: ratio},
		{X: float64(len(rows)) - 0.5, Y: ratio},
	})
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("ratio %g%%", ratio), line)
	p.Legend.Top = true

	var width = vg.Points(float64(max(len(rows), 10) * 20))
	return p.Save(width, 5*vg.Inch, path)
}

func GenerateBarItems(vs []float64) []opts.BarData {
	var items = make([]opts.BarData, 0, len(vs))
	for _, v := range vs {
		items = append(items, opts.BarData{Value: v})
	}
	return items
}

// PlotBarHTML renders the same chart as an interactive html page.
func PlotBarHTML(path, subtitle string, rows Table, ratio float64) error {
	var (
		bar           = charts.NewBar()
		names, values = tableAxis(rows)
	)
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    plotTitle,
			Subtitle: subtitle,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Reads (%)"}),
	)
	bar.SetXAxis(names).
		AddSeries(
			"Proportion",
			GenerateBarItems(values),
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  "ratio",
				YAxis: ratio,
			}),
		)

	var output, err = os.Create(path)
	if err != nil {
		return err
	}
	if err = bar.Render(output); err != nil {
		output.Close()
		return err
	}
	return output.Close()
}
