// Package sales decodes the daily sales data embedded in the dashboard page.
package sales

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/user/sales-chart-go/internal/models"
)

// ErrMalformedData is matched by every error ParseSeries returns.
var ErrMalformedData = errors.New("malformed sales data")

// ValidationError reports why the embedded data could not be turned into a series.
// Index is -1 when the document as a whole is at fault.
type ValidationError struct {
	Index int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: %v", ErrMalformedData, e.Err)
	case e.Field == "":
		return fmt.Sprintf("%v: record %d: %v", ErrMalformedData, e.Index, e.Err)
	default:
		return fmt.Sprintf("%v: record %d: %s: %v", ErrMalformedData, e.Index, e.Field, e.Err)
	}
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrMalformedData, e.Err}
}

// rawRecord accepts the canonical field names and the {date, revenue}
// shape the page generator has also been seen to emit.
type rawRecord struct {
	SaleDate   *string          `json:"sale_date"`
	DailyTotal *decimal.Decimal `json:"daily_total"`
	Date       *string          `json:"date"`
	Revenue    *decimal.Decimal `json:"revenue"`
}

// ParseSeries decodes the text content of the data element.
// Whitespace-only text is treated as an empty array.
func ParseSeries(text string) (models.SalesSeries, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.SalesSeries{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, &ValidationError{Index: -1, Err: describeDecodeError(err)}
	}

	series := make(models.SalesSeries, 0, len(items))
	for i, item := range items {
		rec, err := parseRecord(item)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Index = i
				return nil, ve
			}
			return nil, &ValidationError{Index: i, Err: err}
		}
		series = append(series, rec)
	}
	return series, nil
}

func parseRecord(item json.RawMessage) (models.SalesRecord, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
		return models.SalesRecord{}, fmt.Errorf("expected an object, got %s", truncate(string(item), 32))
	}

	var raw rawRecord
	if err := json.Unmarshal(item, &raw); err != nil {
		return models.SalesRecord{}, describeDecodeError(err)
	}

	date := raw.SaleDate
	if date == nil {
		date = raw.Date
	}
	if date == nil {
		return models.SalesRecord{}, &ValidationError{Field: "sale_date", Err: errors.New("missing")}
	}

	total := raw.DailyTotal
	if total == nil {
		total = raw.Revenue
	}
	if total == nil {
		return models.SalesRecord{}, &ValidationError{Field: "daily_total", Err: errors.New("missing")}
	}

	return models.SalesRecord{SaleDate: *date, DailyTotal: *total}, nil
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return fmt.Errorf("expected a JSON array, got %s", typeErr.Value)
		}
		return fmt.Errorf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
