package models

import "github.com/shopspring/decimal"

// SalesRecord is one day's aggregated revenue as rendered into the dashboard page.
type SalesRecord struct {
	SaleDate   string          `json:"sale_date"`
	DailyTotal decimal.Decimal `json:"daily_total"`
}

// SalesSeries is the embedded collection in source order. It is never re-sorted.
type SalesSeries []SalesRecord

// Labels projects sale_date of every record, position-aligned with Values.
func (s SalesSeries) Labels() []string {
	labels := make([]string, len(s))
	for i, r := range s {
		labels[i] = r.SaleDate
	}
	return labels
}

// Values projects daily_total of every record, position-aligned with Labels.
func (s SalesSeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, r := range s {
		values[i] = r.DailyTotal.InexactFloat64()
	}
	return values
}

// ChartDescriptor is the second argument of the charting constructor.
// Its JSON form is accepted by Chart.js as-is.
type ChartDescriptor struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// ChartData holds the x-axis labels and the plotted datasets.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one plotted series.
type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderWidth float64   `json:"borderWidth"`
	Tension     float64   `json:"tension"`
}

// ChartOptions holds presentation options.
type ChartOptions struct {
	Responsive bool   `json:"responsive"`
	Scales     Scales `json:"scales"`
}

// Scales configures the chart axes.
type Scales struct {
	Y AxisOptions `json:"y"`
}

// AxisOptions configures a single axis.
type AxisOptions struct {
	BeginAtZero bool `json:"beginAtZero"`
}
