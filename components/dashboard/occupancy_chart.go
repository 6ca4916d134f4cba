package dashboard

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

const defaultOccupancyHeight = "420px"

// OccupancyChart renders a heatmap of which widget owns each cell, optionally
// overlaid with a drag preview.
type OccupancyChart struct {
	Title      string
	Theme      string
	AssetsHost string
}

// NewOccupancyChart builds a chart with default styling.
func NewOccupancyChart() *OccupancyChart {
	return &OccupancyChart{
		Title: "Canvas occupancy",
		Theme: types.ThemeWesteros,
	}
}

// Render writes the chart HTML for layout to out. A valid preview adds a
// second series with the target footprint and relocation ghosts.
func (c *OccupancyChart) Render(layout grid.Layout, preview *grid.Preview, out io.Writer) error {
	g := layout.Grid
	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(c.globalOptions(layout)...)
	heatmap.SetXAxis(axisLabels("c", g.Cols))
	heatmap.AddSeries("widgets", occupancyData(layout))
	if preview != nil && preview.Valid {
		heatmap.AddSeries("preview", previewData(g, *preview, len(layout.Widgets)+1))
	}
	return heatmap.Render(out)
}

// RenderString returns the chart HTML.
func (c *OccupancyChart) RenderString(layout grid.Layout, preview *grid.Preview) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(layout, preview, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *OccupancyChart) globalOptions(layout grid.Layout) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  c.Theme,
		Width:  "100%",
		Height: defaultOccupancyHeight,
	}
	if c.AssetsHost != "" {
		initOpts.AssetsHost = c.AssetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: fmt.Sprintf("%dx%d, version %d", layout.Grid.Rows, layout.Grid.Cols, layout.Version),
		}),
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:    "category",
			Data:    axisLabels("r", layout.Grid.Rows),
			Inverse: opts.Bool(true),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:  0,
			Max:  float32(len(layout.Widgets) + 1),
			Show: opts.Bool(false),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#f5f5f5", "#5470c6", "#ee6666"},
			},
		}),
	}
}

func axisLabels(prefix string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return labels
}

// occupancyData emits one point per cell; free cells carry 0 and each widget
// its 1-based position in cell order.
func occupancyData(layout grid.Layout) []opts.HeatMapData {
	g := layout.Grid
	owners := layout.Occupancy()
	rank := make(map[string]int, len(layout.Widgets))
	for i, w := range layout.Sorted() {
		rank[w.ID] = i + 1
	}
	data := make([]opts.HeatMapData, 0, g.Cells())
	for cell := 0; cell < g.Cells(); cell++ {
		row, col := g.ToRowCol(cell)
		id := owners[cell]
		data = append(data, opts.HeatMapData{
			Name:  id,
			Value: [3]int{col, row, rank[id]},
		})
	}
	return data
}

func previewData(g grid.Grid, pv grid.Preview, value int) []opts.HeatMapData {
	var data []opts.HeatMapData
	add := func(name string, fp grid.Footprint) {
		for _, cell := range fp.Cells(g) {
			row, col := g.ToRowCol(cell)
			data = append(data, opts.HeatMapData{Name: name, Value: [3]int{col, row, value}})
		}
	}
	add("target", pv.Footprint)
	for _, ghost := range pv.Ghosts {
		add(ghost.WidgetID, ghost.Footprint)
	}
	return data
}
