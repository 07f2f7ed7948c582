package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor/jobsync/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := New("1.2.3", "abc1234", "2026-08-23")
	root := app.rootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jobsync 1.2.3")
	assert.Contains(t, out, "abc1234")
}

func TestSyncRequiresConfiguration(t *testing.T) {
	_, err := execute(t, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestScanRequiresRoot(t *testing.T) {
	_, err := execute(t, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan root")
}

func TestScanRunsOnEmptyRoot(t *testing.T) {
	_, err := execute(t, "scan", "--root", t.TempDir())
	assert.NoError(t, err)
}

func TestScanRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "scan", "--root", t.TempDir(), "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestReportWithoutFileFails(t *testing.T) {
	_, err := execute(t, "report", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"default", config.Config{LogLevel: "info"}, "info"},
		{"explicit level wins", config.Config{LogLevel: "trace", Verbose: true}, "trace"},
		{"verbose", config.Config{LogLevel: "info", Verbose: true}, "debug"},
		{"quiet", config.Config{LogLevel: "info", Quiet: true}, "warn"},
		{"both prefers quiet", config.Config{LogLevel: "info", Verbose: true, Quiet: true}, "warn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.cfg))
		})
	}
}
