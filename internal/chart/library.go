package chart

import (
	"fmt"
	"strconv"

	"github.com/user/sales-chart-go/internal/models"
	"github.com/user/sales-chart-go/internal/page"
	"golang.org/x/net/html"
)

// Charter is the charting capability: it constructs a chart described by desc
// on the given drawing surface.
type Charter interface {
	New(surface *page.Element, desc models.ChartDescriptor) error
}

// Library renders charts to images and attaches them to the surface.
type Library struct {
	Renderer *Renderer
}

// NewLibrary returns a Library drawing with r.
func NewLibrary(r *Renderer) *Library {
	return &Library{Renderer: r}
}

// New renders desc and appends it to surface as an img element.
// A canvas surface is turned into a div first so the image is displayed.
func (l *Library) New(surface *page.Element, desc models.ChartDescriptor) error {
	img, err := l.Renderer.Render(desc)
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", desc.Type, err)
	}
	Attach(surface, img, desc)
	return nil
}

// Attach places a rendered image inside surface.
func Attach(surface *page.Element, img Image, desc models.ChartDescriptor) {
	if surface.Tag() == "canvas" {
		surface.SetTag("div")
	}

	attrs := []html.Attribute{
		{Key: "src", Val: img.DataURI()},
		{Key: "alt", Val: altText(desc)},
	}
	if desc.Options.Responsive {
		attrs = append(attrs, html.Attribute{Key: "style", Val: "max-width:100%;height:auto"})
	} else {
		attrs = append(attrs,
			html.Attribute{Key: "width", Val: strconv.Itoa(img.Width)},
			html.Attribute{Key: "height", Val: strconv.Itoa(img.Height)},
		)
	}
	surface.AppendElement("img", attrs...)
}

func altText(desc models.ChartDescriptor) string {
	if len(desc.Data.Datasets) == 0 {
		return desc.Type + " chart"
	}
	return desc.Data.Datasets[0].Label + " " + desc.Type + " chart"
}
