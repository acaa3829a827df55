package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestBuildLoggerStdout(t *testing.T) {
	log, err := buildLogger(gviz.LoggingConfig{Level: "info", Encoding: "json"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestBuildLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()
	log, err := buildLogger(gviz.LoggingConfig{
		Level:    "debug",
		Encoding: "console",
		LogRotation: &gviz.LogRotationConfig{
			Filename:   filepath.Join(dir, "gviz.log"),
			MaxSizeMB:  1,
			MaxBackups: 1,
		},
	})
	require.NoError(t, err)
	log.Info("hello")
	assert.FileExists(t, filepath.Join(dir, "gviz.log"))
}

func TestBuildLoggerRejectsBadLevel(t *testing.T) {
	_, err := buildLogger(gviz.LoggingConfig{Level: "not-a-level"})
	assert.Error(t, err)
}
