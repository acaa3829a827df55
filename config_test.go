package gviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveRowLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query.MaxRowLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownEncoding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Encoding = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsDuplicateProviderNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{
		{Name: "a", Kind: "csv", Path: "a.csv"},
		{Name: "a", Kind: "csv", Path: "b.csv"},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownProviderKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{{Name: "a", Kind: "mongo"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsPostgresWithoutTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{{Name: "a", Kind: "postgres", DSN: "postgres://localhost/db"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsPostgresWithDSNAndTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{{Name: "a", Kind: "postgres", DSN: "postgres://localhost/db", Table: "people"}}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsS3WithoutBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{{Name: "a", Kind: "s3", Key: "data.csv"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsCSVWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers = []ProviderConfig{{Name: "a", Kind: "csv"}}
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigEnvOverridesAddr(t *testing.T) {
	t.Setenv("GVIZ_SERVER_ADDR", ":9999")
	cfg := LoadConfigEnv(DefaultConfig())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadConfigEnvOverridesMaxRowLimit(t *testing.T) {
	t.Setenv("GVIZ_MAX_ROW_LIMIT", "42")
	cfg := LoadConfigEnv(DefaultConfig())
	assert.Equal(t, 42, cfg.Query.MaxRowLimit)
}

func TestValidateRejectsLogRotationWithoutFilename(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogRotation = &LogRotationConfig{}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsLogRotationWithFilename(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.LogRotation = &LogRotationConfig{Filename: "gviz.log", MaxSizeMB: 10}
	assert.NoError(t, cfg.Validate())
}
