package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/sales-chart-go/internal/chart"
	"github.com/user/sales-chart-go/internal/models"
	"github.com/user/sales-chart-go/internal/page"
	"github.com/user/sales-chart-go/internal/sales"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingCharter struct {
	calls    []models.ChartDescriptor
	surfaces []*page.Element
	err      error
}

func (r *recordingCharter) New(surface *page.Element, desc models.ChartDescriptor) error {
	r.calls = append(r.calls, desc)
	r.surfaces = append(r.surfaces, surface)
	return r.err
}

func dashboardPage(data string, withData, withSurface bool) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><body><h1>Admin</h1>")
	if withData {
		fmt.Fprintf(&sb, `<script type="application/json" id="daily-sales-data">%s</script>`, data)
	}
	if withSurface {
		sb.WriteString(`<canvas id="salesChart"></canvas>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func parse(t *testing.T, src string) *page.Document {
	t.Helper()
	doc, err := page.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestRun_ScenarioA(t *testing.T) {
	doc := parse(t, dashboardPage(`[{"sale_date":"2024-01-01","daily_total":100},{"sale_date":"2024-01-02","daily_total":250}]`, true, true))
	charter := &recordingCharter{}

	res, err := New(charter).Run(doc)
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Outcome)

	require.Len(t, charter.calls, 1)
	desc := charter.calls[0]
	assert.Equal(t, "line", desc.Type)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, desc.Data.Labels)
	require.Len(t, desc.Data.Datasets, 1)
	assert.Equal(t, []float64{100, 250}, desc.Data.Datasets[0].Data)
	assert.Equal(t, "Daily Revenue", desc.Data.Datasets[0].Label)
	assert.True(t, desc.Options.Scales.Y.BeginAtZero)
	assert.True(t, desc.Options.Responsive)

	assert.Equal(t, "canvas", charter.surfaces[0].Tag())
	id, _ := charter.surfaces[0].Attr("id")
	assert.Equal(t, "salesChart", id)

	require.NotNil(t, res.Descriptor)
	assert.Equal(t, desc, *res.Descriptor)
	assert.Len(t, res.Series, 2)
}

func TestRun_AlignedProjections(t *testing.T) {
	var records []string
	for i := 1; i <= 30; i++ {
		records = append(records, fmt.Sprintf(`{"sale_date":"2024-03-%02d","daily_total":%d.5}`, i, i*10))
	}
	doc := parse(t, dashboardPage("["+strings.Join(records, ",")+"]", true, true))
	charter := &recordingCharter{}

	_, err := New(charter).Run(doc)
	require.NoError(t, err)
	require.Len(t, charter.calls, 1)

	desc := charter.calls[0]
	require.Len(t, desc.Data.Labels, 30)
	require.Len(t, desc.Data.Datasets[0].Data, 30)
	for i := 0; i < 30; i++ {
		assert.Equal(t, fmt.Sprintf("2024-03-%02d", i+1), desc.Data.Labels[i])
		assert.Equal(t, float64((i+1)*10)+0.5, desc.Data.Datasets[0].Data[i])
	}
}

func TestRun_SilentSkips(t *testing.T) {
	validData := `[{"sale_date":"2024-01-01","daily_total":100}]`
	tests := []struct {
		name string
		src  string
		want Outcome
	}{
		{"scenario B empty text", dashboardPage("", true, true), SkippedEmpty},
		{"whitespace text", dashboardPage("\n   \n", true, true), SkippedEmpty},
		{"empty array", dashboardPage("[]", true, true), SkippedEmpty},
		{"no data element", dashboardPage(validData, false, true), SkippedNoData},
		{"no surface", dashboardPage(validData, true, false), SkippedNoSurface},
		{"nothing at all", dashboardPage("", false, false), SkippedNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			charter := &recordingCharter{}
			res, err := New(charter).Run(parse(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.True(t, res.Outcome.Skipped())
			assert.Nil(t, res.Descriptor)
			assert.Empty(t, charter.calls)
		})
	}
}

func TestRun_ScenarioC_Malformed(t *testing.T) {
	doc := parse(t, dashboardPage("not json", true, true))
	charter := &recordingCharter{}

	res, err := New(charter).Run(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sales.ErrMalformedData))
	assert.Equal(t, Failed, res.Outcome)
	assert.False(t, res.Outcome.Skipped())
	assert.Empty(t, charter.calls)
	assert.NotContains(t, doc.String(), "sales-chart-error")
}

func TestRun_ErrorBanner(t *testing.T) {
	doc := parse(t, dashboardPage(`[{"sale_date":"2024-01-01"}]`, true, true))
	charter := &recordingCharter{}

	_, err := New(charter, WithErrorBanner(true)).Run(doc)
	require.Error(t, err)
	assert.Empty(t, charter.calls)

	out := doc.String()
	assert.Contains(t, out, `<div id="salesChart"><div class="sales-chart-error" role="alert">Sales data could not be displayed (record 1).</div></div>`)
}

func TestRun_CharterFailure(t *testing.T) {
	doc := parse(t, dashboardPage(`[{"sale_date":"2024-01-01","daily_total":1}]`, true, true))
	boom := errors.New("boom")
	charter := &recordingCharter{err: boom}

	res, err := New(charter).Run(doc)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, res.Outcome)
	assert.Len(t, charter.calls, 1)
}

func TestRun_CustomElementIDs(t *testing.T) {
	doc := parse(t, `<html><body><script id="rev">[{"sale_date":"x","daily_total":1}]</script><div id="plot"></div></body></html>`)
	charter := &recordingCharter{}

	res, err := New(charter, WithElementIDs("rev", "plot")).Run(doc)
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Outcome)
	assert.Equal(t, "div", charter.surfaces[0].Tag())

	// Empty overrides keep the defaults.
	s := New(charter, WithElementIDs("", ""))
	assert.Equal(t, DefaultDataElementID, s.DataElementID)
	assert.Equal(t, DefaultSurfaceElementID, s.SurfaceElementID)
}

func TestRegister_FiresOnceOnReady(t *testing.T) {
	doc := parse(t, dashboardPage(`[{"sale_date":"2024-01-01","daily_total":100}]`, true, true))
	charter := &recordingCharter{}

	result := New(charter).Register(doc)
	assert.Empty(t, charter.calls, "nothing runs before the ready event")

	require.NoError(t, doc.Ready())
	require.NoError(t, doc.Ready())
	assert.Len(t, charter.calls, 1)

	res, err := result()
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Outcome)
}

func TestRegister_PropagatesMalformedData(t *testing.T) {
	doc := parse(t, dashboardPage("not json", true, true))
	result := New(&recordingCharter{}).Register(doc)

	err := doc.Ready()
	assert.ErrorIs(t, err, sales.ErrMalformedData)
	_, resErr := result()
	assert.ErrorIs(t, resErr, sales.ErrMalformedData)
}

func TestRun_WithGonumLibrary(t *testing.T) {
	doc := parse(t, dashboardPage(`[{"sale_date":"2024-01-01","daily_total":100},{"sale_date":"2024-01-02","daily_total":250}]`, true, true))
	lib := chart.NewLibrary(chart.NewRenderer(chart.FormatPNG, 300, 150))

	res, err := New(lib).Run(doc)
	require.NoError(t, err)
	assert.Equal(t, Rendered, res.Outcome)
	assert.Contains(t, doc.String(), `<div id="salesChart"><img src="data:image/png;base64,`)
}

func TestRun_Logging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	doc := parse(t, dashboardPage("[]", true, true))

	_, err := New(&recordingCharter{}, WithLogger(zap.New(core))).Run(doc)
	require.NoError(t, err)

	entries := logs.FilterMessage("Sales chart not rendered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "empty sales series", entries[0].ContextMap()["reason"])
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "rendered", Rendered.String())
	assert.Equal(t, "no drawing surface", SkippedNoSurface.String())
	assert.Equal(t, "Outcome(42)", Outcome(42).String())
}
