package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/format"
)

// Config is the optional YAML configuration file.
//
//	log:
//	  level: debug
//	  formatter: json
//	  fields:
//	    service: indexer
//	boc:
//	  index: true
//	  crc32c: true
//	  cache_bits: false
//	archive:
//	  compression: zstd
type Config struct {
	Log     LogConfig     `yaml:"log"`
	BOC     BOCConfig     `yaml:"boc"`
	Archive ArchiveConfig `yaml:"archive"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level     string         `yaml:"level"`
	Formatter string         `yaml:"formatter"`
	Fields    map[string]any `yaml:"fields"`
}

// BOCConfig holds the serializer flags used when a command writes a bag.
type BOCConfig struct {
	Index     bool `yaml:"index"`
	CRC32C    bool `yaml:"crc32c"`
	CacheBits bool `yaml:"cache_bits"`
}

// ArchiveConfig holds the archive defaults.
type ArchiveConfig struct {
	Compression string `yaml:"compression"`
}

func defaultConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Formatter: "text"},
		BOC:     BOCConfig{CRC32C: true},
		Archive: ArchiveConfig{Compression: "zstd"},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := format.ParseCompressionType(cfg.Archive.Compression); err != nil {
		return nil, fmt.Errorf("config archive.compression: %w", err)
	}

	return cfg, nil
}

func (c BOCConfig) serializeOptions() []cell.SerializeOption {
	return []cell.SerializeOption{
		cell.WithIndex(c.Index),
		cell.WithCRC32C(c.CRC32C),
		cell.WithCacheBits(c.CacheBits),
	}
}
