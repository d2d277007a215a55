package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Nil(t, err)
	assert.Equal(t, "ron.db", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)

	path := filepath.Join(t.TempDir(), "ron.toml")
	assert.Nil(t, os.WriteFile(path, []byte("db = \"/tmp/ops\"\nlisten = \":9000\"\ncache_size = 128\nsync = true\n"), 0o644))
	cfg, err = LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, "/tmp/ops", cfg.DB)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.True(t, cfg.Sync)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Nil(t, os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
