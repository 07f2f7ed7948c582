package jobsync

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/internal/db"
	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/sanitize"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// Option is a function that configures a Runner.
type Option func(*Runner) error

// WithManifestName overrides the manifest file name looked for in each
// job folder.
func WithManifestName(name string) Option {
	return func(r *Runner) error {
		if name == "" {
			return errors.New("manifest name must not be empty")
		}
		r.manifestName = name
		return nil
	}
}

// WithCacheFile persists the parse cache at the given path so unchanged
// manifests are not re-parsed across runs.
func WithCacheFile(path string) Option {
	return func(r *Runner) error {
		r.cachePath = path
		return nil
	}
}

// WithReportFile writes the run's correction report to the given path.
func WithReportFile(path string) Option {
	return func(r *Runner) error {
		r.reportPath = path
		return nil
	}
}

// WithMapping overrides the local-field-to-sheet-column mapping. Every
// mapped local field must be a record field; a mapping naming unknown
// fields is rejected rather than silently losing their columns.
func WithMapping(mapping syncer.Mapping) Option {
	return func(r *Runner) error {
		if len(mapping) == 0 {
			return errors.New("mapping must not be empty")
		}
		if unknown := mapping.Unknown(); len(unknown) > 0 {
			return errors.New("mapping names unknown local fields: " + strings.Join(unknown, ", "))
		}
		r.mapping = mapping
		return nil
	}
}

// WithSanitizeConfig overrides the sanitizer's field sets and defaults.
func WithSanitizeConfig(cfg sanitize.Config) Option {
	return func(r *Runner) error {
		r.sanitize = cfg
		return nil
	}
}

// WithExcludedStatuses drops records in the given statuses from the
// dataset before diffing. Jobs that have left the floor stay on the
// share for a while; excluding them keeps the sheet to live work.
func WithExcludedStatuses(statuses []string) Option {
	return func(r *Runner) error {
		for _, status := range statuses {
			r.excluded[status] = true
		}
		return nil
	}
}

// WithBatchSizes overrides the maximum operations per remote call.
// Values below one keep the defaults.
func WithBatchSizes(deletes, adds, updates int) Option {
	return func(r *Runner) error {
		r.deleteBatch = deletes
		r.addBatch = adds
		r.updateBatch = updates
		return nil
	}
}

// WithDryRun computes and logs the mutation plan without applying it.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) error {
		r.dryRun = enabled
		return nil
	}
}

// WithDatabase supplies the order-system database for supplementary
// lookups during canonicalization.
func WithDatabase(client *db.Client) Option {
	return func(r *Runner) error {
		r.database = client
		return nil
	}
}

// WithLogger overrides the runner's logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(r *Runner) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		r.log = log
		return nil
	}
}
