// Package config loads the resolver's TOML configuration and watches
// the blocklist file for changes, in the teacher's idiom: BurntSushi/toml
// for decoding, fsnotify for the watch loop. The upstream set is read once
// at load time and is not reloaded.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/semihalev/log"
)

const configVersion = "1.0.0"

// UpstreamConfig is one entry in the load balancer's upstream set.
type UpstreamConfig struct {
	ID             string
	Address        string
	Weight         int
	Capacity       int64
	Lat            float64
	Lon            float64
	HasLocation    bool
	Specialisation []uint16
}

// Config is the resolver's full runtime configuration.
type Config struct {
	Version string

	Bind        string
	MetricsBind string

	Strategy   string
	MaxRetries int

	CacheSizeL1 int
	CacheSizeL2 int
	CacheSizeL3 int

	BlocklistMode string // "suffix" (default) or "exact"
	BlocklistFile string

	Upstreams []UpstreamConfig

	LogLevel string

	Timeout Duration
}

// Duration wraps time.Duration for TOML's text marshaller and unmarshaller.
type Duration struct {
	time.Duration
}

// MarshalText renders the duration as a Go duration string, the form
// UnmarshalText reads back.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalText parses a Go duration string ("5s", "1500ms").
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns a Config with the resolver's baseline settings: Load
// decodes the file over it, and writeDefault writes it out when the file
// is missing.
func Default() *Config {
	return &Config{
		Version:       configVersion,
		Bind:          "0.0.0.0:53",
		MetricsBind:   "0.0.0.0:9153",
		Strategy:      "intelligent",
		MaxRetries:    3,
		CacheSizeL3:   256000,
		BlocklistMode: "suffix",
		LogLevel:      "info",
		Timeout:       Duration{5 * time.Second},
	}
}

// Load reads and decodes the TOML config file at path. If the file does
// not exist, it writes out Default() there first, the same
// generate-on-first-run behaviour the teacher's loader uses.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return nil, err
		}
	}

	log.Info("loading config file", "path", path)

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	if cfg.Version != configVersion {
		log.Warn("config file version mismatch, defaults may differ", "have", cfg.Version, "want", configVersion)
	}

	return cfg, nil
}

func writeDefault(path string) error {
	cfg := Default()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not generate config: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("could not write default config: %w", err)
	}

	log.Info("default config file generated", "path", path)
	return nil
}
