// Package config loads the optional project file for testextract.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arjunmahishi/testextract/extract"
)

// FileName is the project file looked up in the scan root.
const FileName = ".testextract.yaml"

// Config mirrors the scan flags. Zero values mean "not set".
type Config struct {
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	Language string   `yaml:"language"`
	Jobs     int      `yaml:"jobs"`
	MaxBytes int64    `yaml:"max_bytes"`
}

// Path returns the project file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional loads the project file in dir if it exists.
// A missing file yields an empty Config.
func LoadOptional(dir string) (*Config, error) {
	path := Path(dir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return Load(path)
}

// Validate checks value ranges and the language name.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	if c.MaxBytes < 0 {
		return errors.New("max_bytes must not be negative")
	}
	if c.Language != "" && extract.Get(c.Language) == nil {
		return errors.New(c.Language + " language not registered")
	}
	return nil
}

// Apply fills unset fields of opts from the configuration.
func (c *Config) Apply(opts *extract.ExtractOptions) {
	if len(opts.Include) == 0 {
		opts.Include = c.Include
	}
	if len(opts.Exclude) == 0 {
		opts.Exclude = c.Exclude
	}
	if opts.Language == "" {
		opts.Language = c.Language
	}
	if opts.Jobs == 0 {
		opts.Jobs = c.Jobs
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = c.MaxBytes
	}
}
