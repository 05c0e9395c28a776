package charts

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/histtext/insights/category"
	"github.com/histtext/insights/consts"
	"github.com/histtext/insights/db"
	"github.com/histtext/insights/stats"
)

// renderable is satisfied by the concrete go-echarts chart types.
type renderable interface {
	components.Charter
	Validate()
	JSON() map[string]interface{}
}

// chartFor renders a Description with the chart type its hint asks for.
func chartFor(d *Description) renderable {
	switch d.ChartKindHint {
	case KindLine:
		return lineChart(d)
	case KindPie:
		return pieChart(d)
	default:
		return barChart(d)
	}
}

func initOpts() opts.Initialization {
	return opts.Initialization{
		Width:           consts.ChartWidth,
		Height:          consts.ChartHeight,
		BackgroundColor: consts.ChartBackgroundColor,
	}
}

func titleOpts(title string) opts.Title {
	return opts.Title{
		Title:      title,
		TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
	}
}

func lineChart(d *Description) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts()),
		echarts.WithTitleOpts(titleOpts(d.Title)),
		echarts.WithColorsOpts(opts.Colors(d.Colors)),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor},
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor},
		}),
	)

	data := make([]opts.LineData, len(d.Values))
	for i, v := range d.Values {
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(d.Labels).AddSeries(d.Title, data)
	line.SetSeriesOptions(
		echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

func pieChart(d *Description) *echarts.Pie {
	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts()),
		echarts.WithTitleOpts(titleOpts(d.Title)),
		echarts.WithColorsOpts(opts.Colors(d.Colors)),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			Orient:    "vertical",
			Type:      "scroll",
			TextStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
	)

	data := make([]opts.PieData, len(d.Values))
	for i, v := range d.Values {
		data[i] = opts.PieData{Name: d.Labels[i], Value: v}
	}
	pie.AddSeries(d.Title, data).
		SetSeriesOptions(
			echarts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			echarts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "75%"},
				Center: []string{"40%", "50%"},
			}),
		)
	return pie
}

func barChart(d *Description) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts()),
		echarts.WithTitleOpts(titleOpts(d.Title)),
		echarts.WithColorsOpts(opts.Colors(d.Colors)),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor},
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: consts.ChartTextColor},
		}),
	)

	data := make([]opts.BarData, len(d.Values))
	for i, v := range d.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(d.Labels).AddSeries(d.Title, data)
	return bar
}

// RenderPage renders one chart per chartable populated statistic, in
// flattened category order, as a single echarts page.
func RenderPage(w io.Writer, pageTitle string, bag stats.Bag, categories []category.Category) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	for _, c := range categories {
		for _, key := range c.MemberKeys {
			if d := Bin(bag, key, RecommendKind(key)); d != nil {
				page.AddCharts(chartFor(d))
			}
		}
	}
	return page.Render(w)
}

// ChartsHandler serves the server-rendered charts page for a query id.
func ChartsHandler(dbConn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		snapshot, err := db.LatestSnapshot(dbConn, id)
		if err != nil {
			log.Printf("Error loading snapshot %s: %v", id, err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}
		if snapshot == nil {
			http.Error(w, "No data available", http.StatusNotFound)
			return
		}
		categories := category.Classify(snapshot.Bag)
		if len(categories) == 0 {
			http.Error(w, "No data available", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		_ = RenderPage(w, "HistText Insights - "+id, snapshot.Bag, categories)
	}
}

// ExportChartsJSON generates a JSON file with the chart configurations of
// every query's latest snapshot.
func ExportChartsJSON(dbConn *sql.DB, outputDir string) error {
	snapshots, err := db.ListSnapshots(dbConn)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		log.Print("No data to export")
		return nil
	}

	queries := make([]map[string]interface{}, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var chartList []map[string]interface{}
		for _, c := range category.Classify(snapshot.Bag) {
			for _, key := range c.MemberKeys {
				d := Bin(snapshot.Bag, key, RecommendKind(key))
				if d == nil {
					continue
				}
				chart := chartFor(d)
				chart.Validate()
				chartList = append(chartList, map[string]interface{}{
					"key":     key,
					"title":   d.Title,
					"options": chart.JSON(),
				})
			}
		}
		queries = append(queries, map[string]interface{}{
			"id":     snapshot.ID,
			"time":   snapshot.Time.UTC().Format(time.RFC3339),
			"charts": chartList,
		})
	}

	output := map[string]interface{}{
		"lastUpdated": time.Now().UTC().Format(time.RFC3339),
		"queries":     queries,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, consts.DirPermissions); err != nil {
		return err
	}

	outputPath := filepath.Join(outputDir, consts.ChartsJSONFile)
	if err := os.WriteFile(outputPath, jsonData, consts.FilePermissions); err != nil {
		return err
	}

	log.Printf("Exported charts to %s", outputPath)
	return nil
}
