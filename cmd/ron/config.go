package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	DB        string `toml:"db"`
	Listen    string `toml:"listen"`
	LogLevel  string `toml:"log_level"`
	CacheSize int    `toml:"cache_size"`
	History   string `toml:"history"`
	Sync      bool   `toml:"sync"`
}

func (c *Config) SetDefaults() {
	if c.DB == "" {
		c.DB = "ron.db"
	}
	if c.Listen == "" {
		c.Listen = "localhost:8040"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.History == "" {
		c.History = ".ron_cmd_log.txt"
	}
}

// LoadConfig reads a TOML file; an empty path gives the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "load config %s", path)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.Errorf("unknown config key %s", undecoded[0].String())
		}
	}
	cfg.SetDefaults()
	return cfg, nil
}
