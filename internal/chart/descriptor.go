package chart

import "github.com/user/sales-chart-go/internal/models"

const (
	TypeLine = "line"

	// DailyRevenueLabel is the legend text of the dashboard's only dataset.
	DailyRevenueLabel = "Daily Revenue"
)

// NewLineDescriptor builds the dashboard's daily revenue chart descriptor.
func NewLineDescriptor(labels []string, values []float64) models.ChartDescriptor {
	return models.ChartDescriptor{
		Type: TypeLine,
		Data: models.ChartData{
			Labels: labels,
			Datasets: []models.Dataset{{
				Label:       DailyRevenueLabel,
				Data:        values,
				BorderWidth: 2,
				Tension:     0.3,
			}},
		},
		Options: models.ChartOptions{
			Responsive: true,
			Scales: models.Scales{
				Y: models.AxisOptions{BeginAtZero: true},
			},
		},
	}
}
