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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileops/pkg/fault"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
workers: 8
isolation: process
buffer_size: 65536
timeout: 30s
verify: true
exclude:
  - "**/*.tmp"
  - "*.log"
debug: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8, cfg.Workers, "workers should match")
				assert.Equal(t, IsolationProcess, cfg.Isolation, "isolation should match")
				assert.Equal(t, 65536, cfg.BufferSize, "buffer size should match")
				assert.True(t, cfg.Verify, "verify should be true")
				assert.Equal(t, []string{"**/*.tmp", "*.log"}, cfg.Exclude, "exclude should match")
				assert.True(t, cfg.Debug, "debug should be true")

				d, err := cfg.TimeoutDuration()
				require.NoError(t, err)
				assert.Equal(t, 30*time.Second, d)
			},
		},
		{
			name:   "minimal_config",
			config: "workers: 2\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2, cfg.Workers)
				assert.Equal(t, IsolationGoroutine, cfg.Isolation, "isolation should have default value")
				assert.Equal(t, DefaultBufferSize, cfg.BufferSize, "buffer size should have default value")
				assert.Empty(t, cfg.Timeout)
				assert.False(t, cfg.Verify)
			},
		},
		{
			name:   "empty_config",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:        "unknown_field",
			config:      "provider: github\n",
			wantErr:     true,
			errContains: "field provider not found",
		},
		{
			name:        "negative_workers",
			config:      "workers: -1\n",
			wantErr:     true,
			errContains: "workers must not be negative",
		},
		{
			name:        "bad_isolation",
			config:      "isolation: thread\n",
			wantErr:     true,
			errContains: `unknown isolation mode "thread"`,
		},
		{
			name:        "bad_timeout",
			config:      "timeout: soon\n",
			wantErr:     true,
			errContains: `invalid timeout "soon"`,
		},
		{
			name:        "negative_buffer",
			config:      "buffer_size: -4\n",
			wantErr:     true,
			errContains: "buffer_size must not be negative",
		},
		{
			name:        "bad_exclude",
			config:      "exclude: [\"a[\"]\n",
			wantErr:     true,
			errContains: "invalid exclude pattern",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				assert.True(t, fault.Is(err, fault.KindUsage), "config errors are usage faults")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadFailures(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	_, err := Load(ctx, filepath.Join(tmpDir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindOpen), "missing file should be an open fault")

	unknown := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("workers = 1"), 0644))
	_, err = Load(ctx, unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_without_file", func(t *testing.T) {
		cfg, path, err := Resolve(ctx, "", t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("discovers_in_candidate_order", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".fileops.json"), []byte(`{"workers": 1}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".fileops.yml"), []byte("workers: 3\n"), 0644))

		cfg, path, err := Resolve(ctx, "", dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".fileops.yml"), path)
		assert.Equal(t, 3, cfg.Workers)
	})

	t.Run("explicit_wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".fileops.yaml"), []byte("workers: 3\n"), 0644))
		explicit := filepath.Join(dir, "custom.json")
		require.NoError(t, os.WriteFile(explicit, []byte(`{"workers": 5}`), 0644))

		cfg, path, err := Resolve(ctx, explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, explicit, path)
		assert.Equal(t, 5, cfg.Workers)
	})

	t.Run("candidate_directory_is_ignored", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".fileops.yaml"), 0755))

		path, err := Discover(dir)
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "defaults",
			cfg:  Default(),
			want: "workers=unbounded isolation=goroutine buffer=8192 timeout=none verify=false",
		},
		{
			name: "full_config",
			cfg: &Config{
				Workers:    4,
				Isolation:  IsolationProcess,
				BufferSize: 1024,
				Timeout:    "5s",
				Verify:     true,
			},
			want: "workers=4 isolation=process buffer=1024 timeout=5s verify=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String(), "String() should match")
		})
	}
}

func TestLoadDocumentedExamples(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, ".fileops.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`workers: 8
isolation: process
buffer_size: 65536
timeout: 30s
verify: true
exclude:
  - "**/*.tmp"
`), 0644))

	cfg, err := Load(ctx, yamlPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"**/*.tmp"}, cfg.Exclude)

	hclPath := filepath.Join(dir, ".fileops.hcl")
	require.NoError(t, os.WriteFile(hclPath, []byte(`workers   = cpus * 2
isolation = "goroutine"
exclude   = ["**/.git/**"]
`), 0644))

	cfg, err = Load(ctx, hclPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, []string{"**/.git/**"}, cfg.Exclude)
}
