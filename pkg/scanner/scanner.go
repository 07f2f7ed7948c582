// Package scanner walks a directory of job folders, parses each job's
// manifest file into a raw record, and caches parse results keyed by
// file path and modification signature so unchanged manifests are not
// re-parsed across runs.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/logging"
)

// DefaultManifestName is the manifest file looked for in each job
// folder.
const DefaultManifestName = "manifest.txt"

// Stats are the per-run scan counters.
type Stats struct {
	Scanned      int // manifests located
	Hits         int // reused from cache
	Misses       int // parsed fresh
	ParseErrors  int // malformed manifests skipped
	AccessErrors int // unreadable files skipped
}

// Scanner locates and parses job manifests under a root directory.
type Scanner struct {
	root         string
	manifestName string
	cache        *Cache
	recognized   map[string]bool
	log          *zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithManifestName overrides the manifest file name.
func WithManifestName(name string) Option {
	return func(s *Scanner) { s.manifestName = name }
}

// WithCache supplies a cache, typically loaded from the persisted cache
// file of the previous run.
func WithCache(cache *Cache) Option {
	return func(s *Scanner) { s.cache = cache }
}

// WithLogger overrides the scanner's logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(s *Scanner) { s.log = log }
}

// New creates a Scanner over the given root directory.
func New(root string, opts ...Option) *Scanner {
	s := &Scanner{
		root:         root,
		manifestName: DefaultManifestName,
		cache:        NewCache(),
		recognized:   make(map[string]bool),
		log:          logging.Default(),
	}
	for _, field := range jobs.ManifestFields() {
		s.recognized[field] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the scanner's cache, for persisting after a run.
func (s *Scanner) Cache() *Cache {
	return s.cache
}

// Scan enumerates the immediate job subdirectories of the root and
// parses each one's manifest. A root-level access failure yields an
// empty result and a ScanError; per-file failures are counted and
// skipped, and never abort the scan.
func (s *Scanner) Scan(ctx context.Context) ([]jobs.Raw, Stats, error) {
	var stats Stats

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, stats, errors.NewScanError(s.root, err)
	}

	raws := make([]jobs.Raw, 0, len(dirEntries))
	for _, dir := range dirEntries {
		if err := ctx.Err(); err != nil {
			return raws, stats, err
		}
		if !dir.IsDir() {
			continue
		}

		raw, ok := s.scanJob(filepath.Join(s.root, dir.Name()), &stats)
		if ok {
			raws = append(raws, raw)
		}
	}

	s.log.Info().
		Int("scanned", stats.Scanned).
		Int("hits", stats.Hits).
		Int("misses", stats.Misses).
		Int("parse_errors", stats.ParseErrors).
		Int("access_errors", stats.AccessErrors).
		Msg("manifest scan complete")

	return raws, stats, nil
}

// scanJob locates and parses the manifest of one job folder.
func (s *Scanner) scanJob(dir string, stats *Stats) (jobs.Raw, bool) {
	path := filepath.Join(dir, s.manifestName)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Job folders without a manifest are not errors.
			return jobs.Raw{}, false
		}
		stats.AccessErrors++
		s.log.Warn().Err(err).Str("path", path).Msg("manifest not accessible")
		return jobs.Raw{}, false
	}
	stats.Scanned++

	sig := Signature{ModTime: info.ModTime().UnixNano(), Size: info.Size()}
	if fields, cached, ok := s.cache.lookup(path, sig); ok {
		stats.Hits++
		return jobs.Raw{Fields: fields, Path: path, Signature: cached.String()}, true
	}

	content, err := os.ReadFile(path)
	if err != nil {
		stats.AccessErrors++
		s.log.Warn().Err(err).Str("path", path).Msg("manifest not readable")
		return jobs.Raw{}, false
	}

	sig.Checksum = checksum(content)
	if fields, ok := s.cache.rescue(path, sig); ok {
		// Touched but unchanged: reuse the parse.
		stats.Hits++
		return jobs.Raw{Fields: fields, Path: path, Signature: sig.String()}, true
	}

	fields, err := parseManifest(path, content, s.recognized)
	if err != nil {
		stats.ParseErrors++
		s.log.Warn().Err(err).Str("path", path).Msg("manifest malformed")
		return jobs.Raw{}, false
	}

	stats.Misses++
	s.cache.store(path, sig, fields)
	return jobs.Raw{Fields: fields, Path: path, Signature: sig.String()}, true
}

// parseManifest parses key|value lines into a raw record. Unrecognized
// keys are ignored; a manifest with no recognized keys or no work-order
// number is malformed.
func parseManifest(path string, content []byte, recognized map[string]bool) (map[string]string, error) {
	fields := make(map[string]string)

	for _, line := range strings.Split(string(content), "\n") {
		key, value, found := strings.Cut(line, "|")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if !recognized[key] {
			continue
		}
		// Some manifests pad rows with trailing delimiters.
		fields[key] = strings.TrimRight(strings.TrimSpace(value), "|")
	}

	if len(fields) == 0 {
		return nil, errors.WrapParse("manifest", path, errors.New("no recognized fields"))
	}
	if strings.TrimSpace(fields[jobs.FieldWO]) == "" {
		return nil, errors.WrapParse("manifest", path, errors.New("missing work-order number"))
	}
	return fields, nil
}
