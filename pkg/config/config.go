// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Isolation modes.
const (
	IsolationGoroutine = "goroutine"
	IsolationProcess   = "process"
)

// DefaultBufferSize is the copy buffer used when none is configured.
const DefaultBufferSize = 8192

// 📚 Config represents the complete configuration
type Config struct {
	Workers    int      `json:"workers,omitempty" yaml:"workers,omitempty"`         // max concurrent workers, 0 is unbounded
	Isolation  string   `json:"isolation,omitempty" yaml:"isolation,omitempty"`     // goroutine or process
	BufferSize int      `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"` // copy buffer in bytes
	Timeout    string   `json:"timeout,omitempty" yaml:"timeout,omitempty"`         // per-worker deadline, Go duration
	Verify     bool     `json:"verify,omitempty" yaml:"verify,omitempty"`           // checksum every replica
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`         // doublestar patterns dropped from the inputs
	Debug      bool     `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// 🏭 Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Isolation:  IsolationGoroutine,
		BufferSize: DefaultBufferSize,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.New(fault.KindOpen, "read config", path, err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, fault.Usagef("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults. Every problem is a
// usage fault.
func (cfg *Config) Validate() error {
	if cfg.Workers < 0 {
		return fault.Usagef("workers must not be negative, got %d", cfg.Workers)
	}

	switch cfg.Isolation {
	case "":
		cfg.Isolation = IsolationGoroutine
	case IsolationGoroutine, IsolationProcess:
	default:
		return fault.Usagef("unknown isolation mode %q (want %s or %s)", cfg.Isolation, IsolationGoroutine, IsolationProcess)
	}

	if cfg.BufferSize < 0 {
		return fault.Usagef("buffer_size must not be negative, got %d", cfg.BufferSize)
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}

	if _, err := cfg.TimeoutDuration(); err != nil {
		return err
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fault.Usagef("invalid exclude pattern %q", pattern)
		}
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value means no deadline.
func (cfg *Config) TimeoutDuration() (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, fault.Usagef("invalid timeout %q: %v", cfg.Timeout, err)
	}
	if d < 0 {
		return 0, fault.Usagef("timeout must not be negative, got %s", cfg.Timeout)
	}
	return d, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	workers := "unbounded"
	if cfg.Workers > 0 {
		workers = fmt.Sprintf("%d", cfg.Workers)
	}
	timeout := cfg.Timeout
	if timeout == "" {
		timeout = "none"
	}
	return fmt.Sprintf("workers=%s isolation=%s buffer=%d timeout=%s verify=%t", workers, cfg.Isolation, cfg.BufferSize, timeout, cfg.Verify)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fault.New(fault.KindUsage, "parse", "", errors.Errorf("parsing YAML: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
