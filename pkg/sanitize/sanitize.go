// Package sanitize coerces raw manifest values into their declared
// types. Invalid values are replaced with configured defaults and every
// replacement is documented with a correction entry; sanitization never
// fails, so every input produces a valid canonical record.
package sanitize

import (
	"strconv"
	"strings"

	"github.com/agentstation/utc"

	"github.com/shopfloor/jobsync/pkg/jobs"
)

// dateFormats are the accepted date layouts, tried in order. The first
// layout that parses to an in-range date wins.
var dateFormats = []string{
	"2006-01-02", // ISO
	"01/02/2006", // US
	"1/2/06",     // short US
}

// Sane calendar bounds. Anything outside is treated as a parse failure,
// which also catches two-digit years consumed by a four-digit layout.
const (
	minYear = 1970
	maxYear = 2100
)

// Config controls which fields are coerced and what replaces invalid
// values.
type Config struct {
	NumericFields  []string
	DateFields     []string
	DefaultNumeric float64
	DefaultDate    utc.Time
}

// DefaultConfig returns the standard field sets and defaults: numeric
// fields default to 0, date fields to the sentinel date.
func DefaultConfig() Config {
	return Config{
		NumericFields:  jobs.NumericFields(),
		DateFields:     jobs.DateFields(),
		DefaultNumeric: 0,
		DefaultDate:    jobs.SentinelDate(),
	}
}

// Sanitizer produces canonical records from raw manifests.
type Sanitizer struct {
	cfg Config
}

// New creates a Sanitizer with the given configuration.
func New(cfg Config) *Sanitizer {
	if len(cfg.NumericFields) == 0 {
		cfg.NumericFields = jobs.NumericFields()
	}
	if len(cfg.DateFields) == 0 {
		cfg.DateFields = jobs.DateFields()
	}
	if cfg.DefaultDate.IsZero() {
		cfg.DefaultDate = jobs.SentinelDate()
	}
	return &Sanitizer{cfg: cfg}
}

// Record sanitizes one raw manifest into a canonical Record. The
// ordinal identifies the record's position in the run and is stamped on
// every correction. Blank or absent values take the default without a
// correction; only values that were present and wrong are corrected.
func (s *Sanitizer) Record(ordinal int, raw jobs.Raw) (jobs.Record, []jobs.Correction) {
	rec := jobs.Record{
		WO:         strings.TrimSpace(raw.Get(jobs.FieldWO)),
		Customer:   strings.TrimSpace(raw.Get(jobs.FieldCustomer)),
		Status:     strings.TrimSpace(raw.Get(jobs.FieldStatus)),
		CreditHold: strings.TrimSpace(raw.Get(jobs.FieldCreditHold)),
		SourcePath: raw.Path,
		Signature:  raw.Signature,
	}

	var corrections []jobs.Correction
	correct := func(field, rawValue, corrected string, kind jobs.FieldKind) {
		corrections = append(corrections, jobs.Correction{
			Ordinal:   ordinal,
			WO:        rec.WO,
			Customer:  rec.Customer,
			Field:     field,
			Raw:       rawValue,
			Corrected: corrected,
			Kind:      kind,
		})
	}

	for _, field := range s.cfg.NumericFields {
		value, ok := s.numeric(raw.Get(field))
		if !ok {
			correct(field, raw.Get(field), jobs.FormatNumber(value), jobs.KindNumeric)
		}
		setNumeric(&rec, field, value)
	}

	for _, field := range s.cfg.DateFields {
		value, ok := s.date(raw.Get(field))
		if !ok {
			// The report shows the replacement's calendar form; the
			// blank rendering of the sentinel is for the sheet only.
			correct(field, raw.Get(field), value.Format("2006-01-02"), jobs.KindDate)
		}
		setDate(&rec, field, value)
	}

	return rec, corrections
}

// Dataset sanitizes a sequence of raw manifests, aggregating corrections
// across records in input order.
func (s *Sanitizer) Dataset(raws []jobs.Raw) ([]jobs.Record, []jobs.Correction) {
	records := make([]jobs.Record, 0, len(raws))
	var corrections []jobs.Correction

	for i, raw := range raws {
		rec, fixes := s.Record(i, raw)
		records = append(records, rec)
		corrections = append(corrections, fixes...)
	}

	return records, corrections
}

// numeric coerces one raw numeric value. ok is false only when the
// value was present and invalid.
func (s *Sanitizer) numeric(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.cfg.DefaultNumeric, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return s.cfg.DefaultNumeric, false
	}
	return v, true
}

// date coerces one raw date value. ok is false only when the value was
// present and no accepted layout produced an in-range date.
func (s *Sanitizer) date(raw string) (utc.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.cfg.DefaultDate, true
	}

	for _, layout := range dateFormats {
		t, err := utc.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.Year() > maxYear {
			continue
		}
		return t, true
	}

	return s.cfg.DefaultDate, false
}

// setNumeric assigns a coerced numeric value to its record field.
func setNumeric(rec *jobs.Record, field string, v float64) {
	switch field {
	case jobs.FieldLineItems:
		rec.LineItems = v
	case jobs.FieldProcessSteps:
		rec.ProcessSteps = v
	case jobs.FieldQuantity:
		rec.Quantity = v
	case jobs.FieldTurnDays:
		rec.TurnDays = v
	case jobs.FieldQuoteNumber:
		rec.QuoteNumber = v
	}
}

// setDate assigns a coerced date value to its record field.
func setDate(rec *jobs.Record, field string, t utc.Time) {
	switch field {
	case jobs.FieldOrderDate:
		rec.OrderDate = t
	case jobs.FieldDueDate:
		rec.DueDate = t
	case jobs.FieldReleaseDate:
		rec.ReleaseDate = t
	case jobs.FieldShipDate:
		rec.ShipDate = t
	}
}

// Float64 coerces a value of uncertain type to a number, returning
// fallback when the value does not parse. It never fails.
func Float64(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}

// Int coerces a value of uncertain type to an integer, returning
// fallback when the value does not parse. Decimal literals are
// truncated toward zero. It never fails.
func Int(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(v)
	}
	return fallback
}

// ParseDate exposes the sanitizer's date coercion for callers outside
// the pipeline. It returns the sentinel date when raw does not parse.
func ParseDate(raw string) utc.Time {
	s := Sanitizer{cfg: Config{DefaultDate: jobs.SentinelDate()}}
	t, _ := s.date(raw)
	return t
}
