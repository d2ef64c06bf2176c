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
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHCLParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full_config",
			config: `
workers     = 4
isolation   = "process"
buffer_size = 1024
timeout     = "10s"
verify      = true
exclude     = ["**/.git/**", "*.swp"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4, cfg.Workers)
				assert.Equal(t, IsolationProcess, cfg.Isolation)
				assert.Equal(t, 1024, cfg.BufferSize)
				assert.Equal(t, "10s", cfg.Timeout)
				assert.True(t, cfg.Verify)
				assert.Equal(t, []string{"**/.git/**", "*.swp"}, cfg.Exclude)
			},
		},
		{
			name:   "cpus_variable",
			config: `workers = cpus * 2`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, runtime.NumCPU()*2, cfg.Workers)
			},
		},
		{
			name:   "empty_body",
			config: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:        "syntax_error",
			config:      `workers = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_attribute",
			config:      `destination = "/tmp"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "invalid_value",
			config:      `timeout = "later"`,
			wantErr:     true,
			errContains: "invalid timeout",
		},
	}

	parser := &HCLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
