package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/sales-chart-go/internal/chart"
	"github.com/user/sales-chart-go/internal/dashboard"
	"github.com/user/sales-chart-go/internal/page"
)

// ErrNoChart is returned by adapters that need a chart when none was built.
var ErrNoChart = errors.New("no chart was built for this page")

// Data is what a run of the dashboard renderer leaves behind.
type Data struct {
	Page   *page.Document
	Result dashboard.Result
}

// ReportAdapter defines the interface for writing the different output formats.
type ReportAdapter interface {
	PrepareData(data *Data) error
	Write(outputFilePath string) error
}

// NewAdapter returns the adapter for format: html, json, png or svg.
// width and height size the bare image formats.
func NewAdapter(format string, width, height int) (ReportAdapter, error) {
	switch format {
	case "html":
		return &HTMLReportAdapter{}, nil
	case "json":
		return &JSONReportAdapter{}, nil
	case chart.FormatPNG, chart.FormatSVG:
		return &ImageReportAdapter{Renderer: chart.NewRenderer(format, width, height)}, nil
	default:
		return nil, fmt.Errorf("invalid report format '%s'. Must be 'html', 'json', 'png' or 'svg'", format)
	}
}

// --- HTML Report Adapter ---

// HTMLReportAdapter writes the page, with the chart attached when one was built.
type HTMLReportAdapter struct {
	reportBuf bytes.Buffer
}

// PrepareData renders the page as HTML.
func (hra *HTMLReportAdapter) PrepareData(data *Data) error {
	hra.reportBuf.Reset()
	if err := data.Page.Render(&hra.reportBuf); err != nil {
		return err
	}
	return nil
}

// Write saves the rendered page to the specified output file.
func (hra *HTMLReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, hra.reportBuf.Bytes())
}

// --- JSON Report Adapter ---

// JSONReportAdapter writes the chart descriptor as JSON.
type JSONReportAdapter struct {
	reportData []byte
}

// PrepareData marshals the chart descriptor.
func (jra *JSONReportAdapter) PrepareData(data *Data) error {
	if data.Result.Descriptor == nil {
		return fmt.Errorf("%w: %s", ErrNoChart, data.Result.Outcome)
	}
	jsonData, err := json.MarshalIndent(data.Result.Descriptor, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chart descriptor to JSON: %w", err)
	}
	jra.reportData = append(jsonData, '\n')
	return nil
}

// Write saves the JSON descriptor to the specified output file.
func (jra *JSONReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, jra.reportData)
}

// --- Image Report Adapter ---

// ImageReportAdapter writes the chart alone as a PNG or SVG file.
type ImageReportAdapter struct {
	Renderer *chart.Renderer
	image    chart.Image
}

// PrepareData renders the chart descriptor.
func (ira *ImageReportAdapter) PrepareData(data *Data) error {
	if data.Result.Descriptor == nil {
		return fmt.Errorf("%w: %s", ErrNoChart, data.Result.Outcome)
	}
	img, err := ira.Renderer.Render(*data.Result.Descriptor)
	if err != nil {
		return fmt.Errorf("failed to render chart image: %w", err)
	}
	ira.image = img
	return nil
}

// Write saves the image to the specified output file.
func (ira *ImageReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, ira.image.Data)
}

func writeFile(outputFilePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outputFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for report file %s: %w", outputFilePath, err)
	}
	return os.WriteFile(outputFilePath, data, 0644)
}
