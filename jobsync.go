// Package jobsync keeps a remote spreadsheet-of-record synchronized
// with the per-job manifest files on a shop-floor network share. One
// run scans and caches the manifests, sanitizes their loosely-typed
// values into canonical job records, and computes and applies the
// minimal set of remote mutations needed to make the sheet match.
//
// The pipeline is strictly sequential: the scan completes before
// sanitization begins, and sanitization completes before the diff is
// computed, so every run observes a single deterministic ordering per
// work-order number.
package jobsync

import (
	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/internal/db"
	"github.com/shopfloor/jobsync/pkg/logging"
	"github.com/shopfloor/jobsync/pkg/sanitize"
	"github.com/shopfloor/jobsync/pkg/sheet"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// Runner executes the reconciliation pipeline.
type Runner struct {
	root         string
	manifestName string
	cachePath    string
	reportPath   string

	api      sheet.API
	mapping  syncer.Mapping
	sanitize sanitize.Config
	excluded map[string]bool

	deleteBatch int
	addBatch    int
	updateBatch int
	dryRun      bool

	database *db.Client
	log      *zerolog.Logger
}

// New creates a Runner that scans the given root directory and syncs
// against the given sheet API.
func New(root string, api sheet.API, opts ...Option) (*Runner, error) {
	r := &Runner{
		root:     root,
		api:      api,
		mapping:  syncer.DefaultMapping(),
		sanitize: sanitize.DefaultConfig(),
		excluded: make(map[string]bool),
		log:      logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}
