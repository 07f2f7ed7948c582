// Package jobs defines the canonical record types for assembly jobs:
// the typed Record produced by sanitization, the correction entries
// that document every value the sanitizer had to replace, and the field
// names shared between manifests, the remote sheet, and the database.
package jobs

import (
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"
)

// Manifest field names. These are the recognized keys in a manifest
// file and the local side of the sheet column mapping.
const (
	FieldWO           = "WO#"
	FieldCustomer     = "Customer"
	FieldStatus       = "Status"
	FieldCreditHold   = "Credit Hold"
	FieldLineItems    = "Line Items"
	FieldProcessSteps = "Process Steps"
	FieldQuantity     = "Qty"
	FieldTurnDays     = "Turn Time"
	FieldQuoteNumber  = "Quote#"
	FieldOrderDate    = "Order Date"
	FieldDueDate      = "Due Date"
	FieldReleaseDate  = "Release Date"
	FieldShipDate     = "Ship Date"
)

// NumericFields returns the fields carrying numeric values, in
// canonical order.
func NumericFields() []string {
	return []string{
		FieldLineItems,
		FieldProcessSteps,
		FieldQuantity,
		FieldTurnDays,
		FieldQuoteNumber,
	}
}

// DateFields returns the fields carrying calendar dates, in canonical
// order.
func DateFields() []string {
	return []string{
		FieldOrderDate,
		FieldDueDate,
		FieldReleaseDate,
		FieldShipDate,
	}
}

// SyncFields returns every field a Record projects onto the remote
// sheet, in canonical column order. Credit hold is not among them: it
// decides whether a record reaches the sheet at all.
func SyncFields() []string {
	fields := []string{FieldWO, FieldCustomer, FieldStatus}
	fields = append(fields, NumericFields()...)
	return append(fields, DateFields()...)
}

// ManifestFields returns every key recognized in a manifest file: the
// sync fields plus the credit hold flag.
func ManifestFields() []string {
	return append(SyncFields(), FieldCreditHold)
}

// Record is one assembly job after sanitization. Every numeric field
// holds a non-negative number or the configured default; every date
// field holds a valid calendar date or the sentinel date. A Record is
// never persisted with a field of the wrong type.
type Record struct {
	WO         string `yaml:"wo"`
	Customer   string `yaml:"customer"`
	Status     string `yaml:"status"`
	CreditHold string `yaml:"credit_hold,omitempty"`

	LineItems    float64 `yaml:"line_items"`
	ProcessSteps float64 `yaml:"process_steps"`
	Quantity     float64 `yaml:"quantity"`
	TurnDays     float64 `yaml:"turn_days"`
	QuoteNumber  float64 `yaml:"quote_number"`

	OrderDate   utc.Time `yaml:"order_date"`
	DueDate     utc.Time `yaml:"due_date"`
	ReleaseDate utc.Time `yaml:"release_date"`
	ShipDate    utc.Time `yaml:"ship_date"`

	// Provenance
	SourcePath string `yaml:"source_path,omitempty"`
	Signature  string `yaml:"signature,omitempty"`
}

// SentinelDate is the placeholder for uncorrectable date inputs. It is
// obviously invalid for any live job, which flags the value for review
// without crashing downstream date arithmetic.
func SentinelDate() utc.Time {
	return utc.New(time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// OnCreditHold reports whether the job's manifest flags it as held.
// Manifests mark held jobs with "YES"; anything else means not held.
func (r *Record) OnCreditHold() bool {
	return strings.EqualFold(r.CreditHold, "YES")
}

// Value renders the named field as its canonical cell string: numbers
// without trailing zeros, dates as YYYY-MM-DD, the sentinel date as
// blank. Unknown fields render blank.
func (r *Record) Value(field string) string {
	switch field {
	case FieldWO:
		return r.WO
	case FieldCustomer:
		return r.Customer
	case FieldStatus:
		return r.Status
	case FieldLineItems:
		return FormatNumber(r.LineItems)
	case FieldProcessSteps:
		return FormatNumber(r.ProcessSteps)
	case FieldQuantity:
		return FormatNumber(r.Quantity)
	case FieldTurnDays:
		return FormatNumber(r.TurnDays)
	case FieldQuoteNumber:
		return FormatNumber(r.QuoteNumber)
	case FieldOrderDate:
		return FormatDate(r.OrderDate)
	case FieldDueDate:
		return FormatDate(r.DueDate)
	case FieldReleaseDate:
		return FormatDate(r.ReleaseDate)
	case FieldShipDate:
		return FormatDate(r.ShipDate)
	}
	return ""
}

// Values projects the record onto its sync fields.
func (r *Record) Values() map[string]string {
	values := make(map[string]string, len(SyncFields()))
	for _, field := range SyncFields() {
		values[field] = r.Value(field)
	}
	return values
}

// FormatNumber renders a numeric cell value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDate renders a date cell value as YYYY-MM-DD. The sentinel
// date renders blank so placeholder dates never reach the sheet.
func FormatDate(t utc.Time) string {
	if t.IsZero() || t.Equal(SentinelDate()) {
		return ""
	}
	return t.Format("2006-01-02")
}
