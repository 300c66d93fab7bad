package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/user/sales-chart-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrUnsupportedType is returned for descriptors that are not line charts.
var ErrUnsupportedType = errors.New("unsupported chart type")

const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Image is a rendered chart.
type Image struct {
	Format string
	Data   []byte
	Width  int // px
	Height int // px
}

// MIMEType returns the media type of the encoded image.
func (img Image) MIMEType() string {
	if img.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// DataURI returns the image as a base64 data URI suitable for an img src.
func (img Image) DataURI() string {
	return "data:" + img.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func init() {
	// Liberation ships with gonum's font cache.
	plot.DefaultFont = font.Font{Typeface: "Liberation", Variant: "Sans"}
}

// Renderer draws descriptors with gonum/plot.
type Renderer struct {
	Format string
	Width  int // px
	Height int // px
}

// NewRenderer returns a renderer producing images of the given format and pixel size.
func NewRenderer(format string, width, height int) *Renderer {
	return &Renderer{Format: format, Width: width, Height: height}
}

// palette follows the browser library's default dataset colours.
var palette = []color.RGBA{
	{R: 54, G: 162, B: 235, A: 255},
	{R: 255, G: 99, B: 132, A: 255},
	{R: 75, G: 192, B: 192, A: 255},
	{R: 255, G: 159, B: 64, A: 255},
}

// Render draws desc and encodes it.
func (r *Renderer) Render(desc models.ChartDescriptor) (Image, error) {
	if desc.Type != TypeLine {
		return Image{}, fmt.Errorf("%w: %q", ErrUnsupportedType, desc.Type)
	}
	if r.Format != FormatPNG && r.Format != FormatSVG {
		return Image{}, fmt.Errorf("unsupported image format %q", r.Format)
	}

	p := plot.New()
	p.Legend.Top = true
	p.Legend.Left = true
	p.NominalX(desc.Data.Labels...)
	p.Add(plotter.NewGrid())

	for i, ds := range desc.Data.Datasets {
		if len(ds.Data) == 0 {
			continue
		}
		if len(ds.Data) != len(desc.Data.Labels) {
			return Image{}, fmt.Errorf("dataset %q has %d values for %d labels", ds.Label, len(ds.Data), len(desc.Data.Labels))
		}

		pts := make(plotter.XYs, len(ds.Data))
		for j, v := range ds.Data {
			pts[j] = plotter.XY{X: float64(j), Y: v}
		}

		line, err := plotter.NewLine(smooth(pts, ds.Tension))
		if err != nil {
			return Image{}, fmt.Errorf("failed to create line for %s: %w", ds.Label, err)
		}
		c := palette[i%len(palette)]
		line.Color = c
		line.LineStyle.Width = vg.Points(ds.BorderWidth)

		points, err := plotter.NewScatter(pts)
		if err != nil {
			return Image{}, fmt.Errorf("failed to create points for %s: %w", ds.Label, err)
		}
		points.GlyphStyle.Color = c
		points.GlyphStyle.Radius = vg.Points(3)
		points.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(line, points)
		p.Legend.Add(ds.Label, line)
	}

	if desc.Options.Scales.Y.BeginAtZero {
		p.Y.Min = math.Min(p.Y.Min, 0)
		p.Y.Max = math.Max(p.Y.Max, 0)
	}

	writer, err := p.WriterTo(pxToLength(r.Width), pxToLength(r.Height), r.Format)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create plot writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return Image{}, fmt.Errorf("failed to write plot to buffer: %w", err)
	}

	return Image{Format: r.Format, Data: buf.Bytes(), Width: r.Width, Height: r.Height}, nil
}

// pxToLength converts CSS pixels to plot units at the 96 dpi gonum uses for PNG.
func pxToLength(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}
