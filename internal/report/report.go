// Package report renders the HTML trend report
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/cli/browser"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"healthscore/internal/analysis"
	"healthscore/internal/service"
)

const theme = "macarons"

// missing is how echarts marks a gap in a series
const missing = "-"

// WriteTrendReport renders the strain/recovery trend and, when a timeline is
// given, the day's stress chart as a single HTML page
func WriteTrendReport(w io.Writer, trend []service.TrendPoint, timeline *service.StressTimeline) error {
	page := components.NewPage()
	page.PageTitle = "healthscore"
	page.AddCharts(trendChart(trend), sleepChart(trend))
	if timeline != nil && len(timeline.Points) > 0 {
		page.AddCharts(stressChart(timeline))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteTrendFile writes the report to path, creating its directory
func WriteTrendFile(path string, trend []service.TrendPoint, timeline *service.StressTimeline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := WriteTrendReport(f, trend, timeline); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open shows the report in the default browser
func Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return browser.OpenFile(abs)
}

func trendChart(trend []service.TrendPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Strain and recovery",
			Subtitle: fmt.Sprintf("%d days", len(trend)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Recovery %", Min: 0, Max: 100}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Strain", Min: 0, Max: analysis.MaxStrain})

	strain := make([]opts.LineData, len(trend))
	recovery := make([]opts.LineData, len(trend))
	for i, p := range trend {
		strain[i] = opts.LineData{Value: round1(p.Strain), YAxisIndex: 1}
		recovery[i] = optData(p.Recovery)
	}

	line.SetXAxis(dateLabels(trend))
	line.AddSeries("Recovery", recovery)
	line.AddSeries("Strain", strain, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func sleepChart(trend []service.TrendPoint) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{Title: "Sleep and stress"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger:     "axis",
			AxisPointer: &opts.AxisPointer{Type: "shadow"},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
	)

	sleep := make([]opts.BarData, len(trend))
	stress := make([]opts.BarData, len(trend))
	for i, p := range trend {
		sleep[i] = opts.BarData{Value: optValue(p.SleepHours)}
		stress[i] = opts.BarData{Value: optValue(p.Stress)}
	}
	bar.SetXAxis(dateLabels(trend))
	bar.AddSeries("Sleep (h)", sleep)
	bar.AddSeries("Avg stress (0-3)", stress)
	return bar
}

func stressChart(tl *service.StressTimeline) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Stress " + tl.Date.Format("Mon Jan 2"),
			Subtitle: fmt.Sprintf("%d readings, %d elevated periods", tl.Raw, len(tl.Periods)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stress", Min: 0, Max: analysis.MaxStress}),
	)

	labels := make([]string, len(tl.Points))
	levels := make([]opts.LineData, len(tl.Points))
	for i, s := range tl.Points {
		labels[i] = s.Time.Format("15:04")
		levels[i] = opts.LineData{Value: round1(s.Level)}
	}
	line.SetXAxis(labels)
	line.AddSeries("Stress", levels, charts.WithAreaStyleOpts(opts.AreaStyle{}))
	return line
}

func dateLabels(trend []service.TrendPoint) []string {
	labels := make([]string, len(trend))
	for i, p := range trend {
		labels[i] = p.Date.Format("Jan 02")
	}
	return labels
}

func optData(v *float64) opts.LineData {
	return opts.LineData{Value: optValue(v)}
}

func optValue(v *float64) any {
	if v == nil {
		return missing
	}
	return round1(*v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
