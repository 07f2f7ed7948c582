package syncer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

func TestDefaultMappingCoversAllSyncFields(t *testing.T) {
	m := syncer.DefaultMapping()

	assert.Len(t, m, len(jobs.SyncFields()))
	assert.Equal(t, jobs.FieldWO, m.KeyColumn())
	assert.Empty(t, m.Unknown())
}

func TestMappingUnknownFlagsTyposInsteadOfDroppingThem(t *testing.T) {
	m := syncer.Mapping{
		jobs.FieldWO:       "Work Order",
		"Ref Des":          "Reference Designators",
		jobs.FieldQuantity: "Build Qty",
		"Quanttiy":         "Build Qty",
	}

	assert.Equal(t, []string{"Quanttiy", "Ref Des"}, m.Unknown())

	// Fields() still only projects the known ones.
	assert.Equal(t, []string{jobs.FieldWO, jobs.FieldQuantity}, m.Fields())
}
