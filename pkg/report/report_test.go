package report_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/report"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "corrections.yaml")

	r := report.New([]jobs.Correction{
		{
			Ordinal:   0,
			WO:        "48213",
			Customer:  "Acme Avionics",
			Field:     jobs.FieldQuantity,
			Raw:       "N/A",
			Corrected: "0",
			Kind:      jobs.KindNumeric,
		},
		{
			Ordinal:   2,
			WO:        "51044",
			Field:     jobs.FieldDueDate,
			Raw:       "TBD",
			Corrected: "",
			Kind:      jobs.KindDate,
		},
	})
	require.NoError(t, r.Write(path))

	loaded, err := report.Read(path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, r.Entries, loaded.Entries)
	assert.Equal(t, "48213", loaded.Entries[0].WO)
	assert.Equal(t, jobs.KindDate, loaded.Entries[1].Kind)
}

func TestNewNilCorrectionsIsEmptyReport(t *testing.T) {
	r := report.New(nil)
	assert.Zero(t, r.Len())

	path := filepath.Join(t.TempDir(), "corrections.yaml")
	require.NoError(t, r.Write(path))

	loaded, err := report.Read(path)
	require.NoError(t, err)
	assert.Zero(t, loaded.Len())
}

func TestReadMissingFileFails(t *testing.T) {
	_, err := report.Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
