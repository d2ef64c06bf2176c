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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Candidates are the file names Discover looks for, in order.
var Candidates = []string{
	".fileops.yaml",
	".fileops.yml",
	".fileops.hcl",
	".fileops.json",
}

// Discover returns the first candidate config file present in dir, or "" when
// there is none.
func Discover(dir string) (string, error) {
	for _, name := range Candidates {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
	}
	return "", nil
}

// Resolve loads the explicit path when one is given, otherwise the discovered file
// in dir, otherwise the defaults.
func Resolve(ctx context.Context, explicit, dir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no config file found, using defaults")
		return Default(), "", nil
	}

	cfg, err := Load(ctx, path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
