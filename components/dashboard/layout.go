package dashboard

import (
	"strings"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// WidgetPayload is the transport shape of a placed widget.
type WidgetPayload struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind,omitempty"`
	Cell     int            `json:"cell"`
	Row      int            `json:"row"`
	Col      int            `json:"col"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// LayoutPayload is the transport shape of a canvas: widgets in cell order plus
// a row-major occupancy matrix where free cells are empty strings.
type LayoutPayload struct {
	CanvasID  string             `json:"canvas_id"`
	Rows      int                `json:"rows"`
	Cols      int                `json:"cols"`
	Version   uint64             `json:"version"`
	Widgets   []WidgetPayload    `json:"widgets"`
	Occupancy [][]string         `json:"occupancy"`
	FreeCells int                `json:"free_cells"`
	Catalog   []WidgetDefinition `json:"catalog,omitempty"`
	Drag      *DragHandle        `json:"drag,omitempty"`
}

// NewLayoutPayload converts a layout snapshot.
func NewLayoutPayload(canvasID string, layout grid.Layout) LayoutPayload {
	g := layout.Grid
	payload := LayoutPayload{
		CanvasID:  canvasID,
		Rows:      g.Rows,
		Cols:      g.Cols,
		Version:   layout.Version,
		Widgets:   make([]WidgetPayload, 0, layout.Len()),
		Occupancy: make([][]string, g.Rows),
	}
	for _, w := range layout.Sorted() {
		fp := w.Footprint(g)
		payload.Widgets = append(payload.Widgets, WidgetPayload{
			ID:       w.ID,
			Kind:     w.Kind,
			Cell:     w.Cell,
			Row:      fp.Row,
			Col:      fp.Col,
			Width:    fp.Width,
			Height:   fp.Height,
			Metadata: w.Metadata,
		})
	}
	owners := layout.Occupancy()
	for row := range payload.Occupancy {
		payload.Occupancy[row] = make([]string, g.Cols)
		for col := range payload.Occupancy[row] {
			id := owners[g.ToCellIndex(row, col)]
			payload.Occupancy[row][col] = id
			if id == "" {
				payload.FreeCells++
			}
		}
	}
	return payload
}

// FormatLayout draws the layout as text, one line per row. Widgets are
// lettered in cell order and free cells print as dots; a legend follows.
func FormatLayout(layout grid.Layout) string {
	g := layout.Grid
	owners := layout.Occupancy()
	letters := make(map[string]byte, layout.Len())
	var legend strings.Builder
	for i, w := range layout.Sorted() {
		letter := widgetLetter(i)
		letters[w.ID] = letter
		legend.WriteByte(letter)
		legend.WriteString(" = ")
		legend.WriteString(w.ID)
		legend.WriteByte('\n')
	}
	var out strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			id, ok := owners[g.ToCellIndex(row, col)]
			if !ok {
				out.WriteByte('.')
				continue
			}
			out.WriteByte(letters[id])
		}
		out.WriteByte('\n')
	}
	out.WriteString(legend.String())
	return out.String()
}

const widgetLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func widgetLetter(i int) byte {
	if i < len(widgetLetters) {
		return widgetLetters[i]
	}
	return '#'
}
