// Package dashboard draws the admin dashboard's daily revenue chart from the
// sales data embedded in the page.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/user/sales-chart-go/internal/chart"
	"github.com/user/sales-chart-go/internal/models"
	"github.com/user/sales-chart-go/internal/page"
	"github.com/user/sales-chart-go/internal/sales"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	DefaultDataElementID    = "daily-sales-data"
	DefaultSurfaceElementID = "salesChart"
)

// Outcome says how far the pipeline got.
type Outcome int

const (
	Rendered Outcome = iota
	SkippedNoData
	SkippedEmpty
	SkippedNoSurface
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case SkippedNoData:
		return "no data element"
	case SkippedEmpty:
		return "empty sales series"
	case SkippedNoSurface:
		return "no drawing surface"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Skipped reports whether the chart was silently not drawn.
func (o Outcome) Skipped() bool {
	return o == SkippedNoData || o == SkippedEmpty || o == SkippedNoSurface
}

// Result describes one run of the renderer.
type Result struct {
	Outcome    Outcome
	Series     models.SalesSeries
	Descriptor *models.ChartDescriptor
}

// SalesChart is the dashboard's sales chart initializer.
type SalesChart struct {
	DataElementID    string
	SurfaceElementID string
	// ErrorBanner inserts an alert into the surface when the data is malformed.
	ErrorBanner bool

	charter chart.Charter
	log     *zap.Logger
}

// Option configures a SalesChart.
type Option func(*SalesChart)

// WithElementIDs overrides the data and surface element ids.
func WithElementIDs(dataID, surfaceID string) Option {
	return func(s *SalesChart) {
		if dataID != "" {
			s.DataElementID = dataID
		}
		if surfaceID != "" {
			s.SurfaceElementID = surfaceID
		}
	}
}

// WithErrorBanner toggles the malformed-data alert.
func WithErrorBanner(on bool) Option {
	return func(s *SalesChart) { s.ErrorBanner = on }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *SalesChart) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a SalesChart drawing through charter.
func New(charter chart.Charter, opts ...Option) *SalesChart {
	s := &SalesChart{
		DataElementID:    DefaultDataElementID,
		SurfaceElementID: DefaultSurfaceElementID,
		charter:          charter,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register hooks the chart onto doc's ready event. The returned function
// reports the result once the event has fired.
func (s *SalesChart) Register(doc *page.Document) func() (Result, error) {
	var (
		res Result
		err error
	)
	doc.OnReady(func(d *page.Document) error {
		res, err = s.Run(d)
		return err
	})
	return func() (Result, error) { return res, err }
}

// Run executes the pipeline against doc: find the data element, parse it,
// find the surface, then construct the chart. Any missing piece ends the run
// without an error; malformed data is returned as a *sales.ValidationError.
func (s *SalesChart) Run(doc *page.Document) (Result, error) {
	dataEl := doc.ElementByID(s.DataElementID)
	if dataEl == nil {
		return s.skip(SkippedNoData, nil)
	}

	series, err := sales.ParseSeries(dataEl.TextContent())
	if err != nil {
		s.log.Error("Failed to parse embedded sales data",
			zap.String("element_id", s.DataElementID), zap.Error(err))
		if s.ErrorBanner {
			s.showBanner(doc, err)
		}
		return Result{Outcome: Failed}, err
	}
	s.log.Debug("Parsed embedded sales data", zap.Int("records", len(series)))

	if len(series) == 0 {
		return s.skip(SkippedEmpty, series)
	}

	surface := doc.ElementByID(s.SurfaceElementID)
	if surface == nil {
		return s.skip(SkippedNoSurface, series)
	}

	desc := chart.NewLineDescriptor(series.Labels(), series.Values())
	if err := s.charter.New(surface, desc); err != nil {
		s.log.Error("Failed to construct sales chart", zap.Error(err))
		return Result{Outcome: Failed, Series: series, Descriptor: &desc}, fmt.Errorf("failed to construct sales chart: %w", err)
	}

	s.log.Info("Rendered daily revenue chart",
		zap.String("surface_id", s.SurfaceElementID), zap.Int("points", len(series)))
	return Result{Outcome: Rendered, Series: series, Descriptor: &desc}, nil
}

func (s *SalesChart) skip(o Outcome, series models.SalesSeries) (Result, error) {
	s.log.Info("Sales chart not rendered", zap.Stringer("reason", o))
	return Result{Outcome: o, Series: series}, nil
}

func (s *SalesChart) showBanner(doc *page.Document, err error) {
	surface := doc.ElementByID(s.SurfaceElementID)
	if surface == nil {
		return
	}
	if surface.Tag() == "canvas" {
		surface.SetTag("div")
	}
	msg := "Sales data could not be displayed."
	var ve *sales.ValidationError
	if errors.As(err, &ve) && ve.Index >= 0 {
		msg = fmt.Sprintf("Sales data could not be displayed (record %d).", ve.Index+1)
	}
	banner := surface.AppendElement("div",
		html.Attribute{Key: "class", Val: "sales-chart-error"},
		html.Attribute{Key: "role", Val: "alert"},
	)
	banner.AppendText(msg)
}
