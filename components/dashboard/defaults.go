package dashboard

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        "dashboard.widget.kpi",
		Name:        "KPI",
		Description: "Single metric tile",
		Category:    "stats",
		Width:       1,
		Height:      1,
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"metric"},
			"properties": map[string]any{
				"metric": map[string]any{"type": "string", "minLength": 1},
				"label":  map[string]any{"type": "string"},
			},
		},
	},
	{
		Code:        "dashboard.widget.chart",
		Name:        "Chart",
		Description: "Report-backed chart",
		Category:    "charts",
		Width:       2,
		Height:      2,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chart_type": map[string]any{"type": "string", "enum": []string{"bar", "line", "pie"}, "default": "bar"},
				"report_id":  map[string]any{"type": "string"},
			},
		},
	},
	{
		Code:        "dashboard.widget.table",
		Name:        "Report Table",
		Description: "Tabular report output",
		Category:    "reports",
		Width:       3,
		Height:      2,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"report_id": map[string]any{"type": "string"},
				"page_size": map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": 10},
			},
		},
	},
	{
		Code:        "dashboard.widget.filter",
		Name:        "Filter",
		Description: "Report filter control",
		Category:    "filters",
		Width:       2,
		Height:      1,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"field": map[string]any{"type": "string"},
			},
		},
	},
	{
		Code:        "dashboard.widget.qr",
		Name:        "QR Scanner",
		Description: "Scans a QR code into a report parameter",
		Category:    "inputs",
		Width:       1,
		Height:      1,
	},
	{
		Code:        "dashboard.widget.banner",
		Name:        "Banner",
		Description: "Full-width heading",
		Category:    "layout",
		Width:       6,
		Height:      1,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
			},
		},
	},
}

// SeedPlacement places a catalog widget at a fixed cell when seeding a canvas.
type SeedPlacement struct {
	DefinitionCode string         `json:"definition_code" yaml:"definition_code"`
	WidgetID       string         `json:"widget_id,omitempty" yaml:"widget_id,omitempty"`
	Cell           int            `json:"cell" yaml:"cell"`
	Metadata       map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

var defaultSeedPlacements = []SeedPlacement{
	{DefinitionCode: "dashboard.widget.kpi", WidgetID: "kpi-revenue", Cell: 0, Metadata: map[string]any{"metric": "revenue", "label": "Revenue"}},
	{DefinitionCode: "dashboard.widget.kpi", WidgetID: "kpi-orders", Cell: 1, Metadata: map[string]any{"metric": "orders", "label": "Orders"}},
	{DefinitionCode: "dashboard.widget.chart", WidgetID: "chart-sales", Cell: 2, Metadata: map[string]any{"chart_type": "line"}},
	{DefinitionCode: "dashboard.widget.filter", WidgetID: "filter-period", Cell: 4, Metadata: map[string]any{"field": "period"}},
	{DefinitionCode: "dashboard.widget.table", WidgetID: "table-orders", Cell: 12, Metadata: map[string]any{"page_size": 10}},
}

// DefaultWidgetDefinitions returns the built-in catalog.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultSeedPlacements returns the starter widgets of a new canvas.
func DefaultSeedPlacements() []SeedPlacement {
	out := make([]SeedPlacement, len(defaultSeedPlacements))
	copy(out, defaultSeedPlacements)
	return out
}
