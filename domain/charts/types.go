package charts

import (
	"datalens/domain/core"
)

// ChartKind identifies a renderable chart family
type ChartKind string

const (
	KindCorrelationHeatmap ChartKind = "correlation_heatmap"
	KindDistributions      ChartKind = "distributions"
	KindScatter            ChartKind = "scatter"
	KindCategoricalBars    ChartKind = "categorical_bars"
	KindSummaryDashboard   ChartKind = "summary_dashboard"
)

// Spec describes one chart the rendering collaborator should produce.
// The pipeline selects charts; it never renders pixels.
type Spec struct {
	Name    string    `json:"name"`
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	Columns []string  `json:"columns,omitempty"`
}

// Catalog is the visualization contract handed to the rendering and
// report collaborators. An empty Visualizations list is a valid state.
type Catalog struct {
	CreatedAt             core.Timestamp `json:"created_at"`
	Visualizations        []Spec         `json:"visualizations"`
	VisualizationsCreated int            `json:"visualizations_created"`
}
