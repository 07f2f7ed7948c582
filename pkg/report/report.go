// Package report writes the run's correction report: a structured file
// listing every field value the sanitizer replaced, consumable by a
// downstream review process.
package report

import (
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/jobs"
)

// Report is one run's complete, ordered correction sequence.
type Report struct {
	GeneratedAt utc.Time          `yaml:"generated_at"`
	Entries     []jobs.Correction `yaml:"entries"`
}

// New builds a report for the given corrections, stamped with the
// current time.
func New(corrections []jobs.Correction) *Report {
	if corrections == nil {
		corrections = []jobs.Correction{}
	}
	return &Report{GeneratedAt: utc.Now(), Entries: corrections}
}

// Len returns the number of corrections in the report.
func (r *Report) Len() int {
	return len(r.Entries)
}

// Write persists the report as YAML, atomically: the file either holds
// the previous report or the complete new one, never a partial write.
func (r *Report) Write(path string) error {
	content, err := yaml.Marshal(r)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("write", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Read loads a previously written report.
func Read(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var r Report
	if err := yaml.Unmarshal(content, &r); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &r, nil
}
