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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// evalContext exposes host facts to expressions, e.g. `workers = cpus * 2`.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cpus": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, fault.New(fault.KindUsage, "parse", "", errors.Errorf("parsing HCL: %s", diags.Error()))
	}

	// Define HCL schema
	type hclConfig struct {
		Workers    *int     `hcl:"workers,optional"`
		Isolation  *string  `hcl:"isolation,optional"`
		BufferSize *int     `hcl:"buffer_size,optional"`
		Timeout    *string  `hcl:"timeout,optional"`
		Verify     *bool    `hcl:"verify,optional"`
		Exclude    []string `hcl:"exclude,optional"`
		Debug      *bool    `hcl:"debug,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, fault.New(fault.KindUsage, "parse", "", errors.Errorf("decoding HCL: %s", diags.Error()))
	}

	// Convert to model
	cfg := Default()
	if hclCfg.Workers != nil {
		cfg.Workers = *hclCfg.Workers
	}
	if hclCfg.Isolation != nil {
		cfg.Isolation = *hclCfg.Isolation
	}
	if hclCfg.BufferSize != nil {
		cfg.BufferSize = *hclCfg.BufferSize
	}
	if hclCfg.Timeout != nil {
		cfg.Timeout = *hclCfg.Timeout
	}
	if hclCfg.Verify != nil {
		cfg.Verify = *hclCfg.Verify
	}
	if hclCfg.Debug != nil {
		cfg.Debug = *hclCfg.Debug
	}
	cfg.Exclude = hclCfg.Exclude

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
