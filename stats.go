package jobsync

import (
	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/pkg/scanner"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// RunStats summarizes one pipeline run.
type RunStats struct {
	Scan        scanner.Stats
	Records     int // canonical records after credit-hold and status filtering
	CreditHold  int // jobs withheld because their manifest flags a credit hold
	Excluded    int // records dropped by status
	Corrections int // field values the sanitizer replaced
	RemoteRows  int // rows fetched from the sheet before diffing
	Sync        syncer.Result
}

// Log emits the run summary at info level.
func (s *RunStats) Log(log *zerolog.Logger) {
	log.Info().
		Int("scanned", s.Scan.Scanned).
		Int("cache_hits", s.Scan.Hits).
		Int("records", s.Records).
		Int("credit_hold", s.CreditHold).
		Int("excluded", s.Excluded).
		Int("corrections", s.Corrections).
		Int("remote_rows", s.RemoteRows).
		Int("deleted", s.Sync.Deleted).
		Int("added", s.Sync.Added).
		Int("updated_cells", s.Sync.UpdatedCells).
		Int("failed_batches", len(s.Sync.Failed)).
		Msg("sync run complete")
}
