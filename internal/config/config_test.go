package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor/jobsync/internal/config"
	"github.com/shopfloor/jobsync/pkg/jobs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "scan:\n  root: /mnt/jobs\n"))
	require.NoError(t, err)

	assert.Equal(t, "/mnt/jobs", cfg.Root)
	assert.Equal(t, "manifest.txt", cfg.ManifestName)
	assert.Equal(t, config.DefaultTokenEnv, cfg.TokenEnv)
	assert.Equal(t, 240, cfg.DeleteBatchSize)
	assert.Equal(t, 450, cfg.AddBatchSize)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
scan:
  root: /mnt/jobs
  manifest_name: camReadme.txt
  cache_file: /var/cache/jobsync/cache.yaml
  report_file: /var/log/jobsync/corrections.yaml
sheet:
  base_url: https://sheets.example.com/api/v1
  id: "4583173393803140"
  token_env: SHEET_TOKEN
  delete_batch_size: 100
excluded_statuses:
  - Shipped
  - Invoiced
mapping:
  "WO#": "Work Order"
  "Qty": "Quantity"
database:
  dsn: postgres://jobsync@erp-host:5432/orders
`))
	require.NoError(t, err)

	assert.Equal(t, "camReadme.txt", cfg.ManifestName)
	assert.Equal(t, "4583173393803140", cfg.SheetID)
	assert.Equal(t, "SHEET_TOKEN", cfg.TokenEnv)
	assert.Equal(t, 100, cfg.DeleteBatchSize)
	assert.Equal(t, 450, cfg.AddBatchSize, "unset batch sizes keep defaults")
	assert.Equal(t, []string{"Shipped", "Invoiced"}, cfg.ExcludedStatuses)
	assert.Equal(t, "postgres://jobsync@erp-host:5432/orders", cfg.DatabaseDSN)

	mapping, err := cfg.SheetMapping()
	require.NoError(t, err)
	assert.Equal(t, "Work Order", mapping[jobs.FieldWO])
	assert.Equal(t, "Quantity", mapping[jobs.FieldQuantity])
}

func TestLoadMissingNamedConfigFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTokenReadsConfiguredEnvVar(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "sheet:\n  token_env: TEST_SHEET_TOKEN\n"))
	require.NoError(t, err)

	t.Setenv("TEST_SHEET_TOKEN", "tok-123")
	assert.Equal(t, "tok-123", cfg.Token())
}

func TestSheetMappingDefaultsToIdentity(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "scan:\n  root: /mnt/jobs\n"))
	require.NoError(t, err)

	mapping, err := cfg.SheetMapping()
	require.NoError(t, err)
	assert.Equal(t, "WO#", mapping["WO#"])
	assert.Equal(t, "Qty", mapping["Qty"])
}

func TestSheetMappingCanonicalizesLowercasedKeys(t *testing.T) {
	// viper lowercases map keys; the mapping must still land on the
	// canonical field names.
	cfg, err := config.Load(writeConfig(t, "mapping:\n  \"wo#\": \"Work Order\"\n  \"due date\": \"Need By\"\n"))
	require.NoError(t, err)

	mapping, err := cfg.SheetMapping()
	require.NoError(t, err)
	assert.Equal(t, "Work Order", mapping[jobs.FieldWO])
	assert.Equal(t, "Need By", mapping[jobs.FieldDueDate])
}

func TestSheetMappingRejectsUnknownFields(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "mapping:\n  \"WO#\": \"Work Order\"\n  \"Ref Des\": \"Reference Designators\"\n"))
	require.NoError(t, err)

	_, err = cfg.SheetMapping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ref des")
}

func TestValidate(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "scan:\n  root: /mnt/jobs\n"))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateScan())
	assert.Error(t, cfg.ValidateSync(), "sync needs sheet settings")

	cfg.SheetBaseURL = "https://sheets.example.com"
	cfg.SheetID = "123"
	cfg.TokenEnv = "TEST_VALIDATE_TOKEN"
	assert.Error(t, cfg.ValidateSync(), "token env not exported")

	t.Setenv("TEST_VALIDATE_TOKEN", "tok")
	assert.NoError(t, cfg.ValidateSync())

	cfg.Root = ""
	assert.Error(t, cfg.ValidateScan())
}
