package jobs_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"

	"github.com/shopfloor/jobsync/pkg/jobs"
)

func TestFormatNumberTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "5", jobs.FormatNumber(5))
	assert.Equal(t, "10.5", jobs.FormatNumber(10.5))
	assert.Equal(t, "0", jobs.FormatNumber(0))
}

func TestFormatDateSentinelRendersBlank(t *testing.T) {
	assert.Equal(t, "", jobs.FormatDate(jobs.SentinelDate()))
	assert.Equal(t, "", jobs.FormatDate(utc.Time{}))

	d := utc.New(time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-01-19", jobs.FormatDate(d))
}

func TestValuesCoversAllSyncFields(t *testing.T) {
	rec := jobs.Record{
		WO:        "48213",
		Customer:  "Acme Avionics",
		Status:    "Kitting",
		Quantity:  25,
		OrderDate: utc.New(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	}

	values := rec.Values()
	assert.Len(t, values, len(jobs.SyncFields()))
	assert.Equal(t, "48213", values[jobs.FieldWO])
	assert.Equal(t, "25", values[jobs.FieldQuantity])
	assert.Equal(t, "2026-02-03", values[jobs.FieldOrderDate])
	assert.Equal(t, "", values[jobs.FieldShipDate])
}

func TestValueUnknownFieldIsBlank(t *testing.T) {
	rec := jobs.Record{WO: "48213"}
	assert.Equal(t, "", rec.Value("Not A Field"))
}

func TestOnCreditHold(t *testing.T) {
	assert.True(t, (&jobs.Record{CreditHold: "YES"}).OnCreditHold())
	assert.True(t, (&jobs.Record{CreditHold: "yes"}).OnCreditHold())
	assert.False(t, (&jobs.Record{CreditHold: "NO"}).OnCreditHold())
	assert.False(t, (&jobs.Record{}).OnCreditHold())
}

func TestCreditHoldIsRecognizedButNotSynced(t *testing.T) {
	assert.Contains(t, jobs.ManifestFields(), jobs.FieldCreditHold)
	assert.NotContains(t, jobs.SyncFields(), jobs.FieldCreditHold)
}
