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

package opts

import (
	"github.com/walteh/fileops/pkg/config"
)

// RootOpts holds the root command flags. Flags the user set explicitly take
// precedence over the config file.
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Workers    int
	Isolation  string
	Timeout    string
	Verify     bool
	BufferSize int
}

// Apply copies every explicitly set flag into cfg. changed reports whether the
// named flag was set on the command line.
func (o *RootOpts) Apply(cfg *config.Config, changed func(name string) bool) {
	if changed("debug") {
		cfg.Debug = o.Debug
	}
	if changed("workers") {
		cfg.Workers = o.Workers
	}
	if changed("isolation") {
		cfg.Isolation = o.Isolation
	}
	if changed("timeout") {
		cfg.Timeout = o.Timeout
	}
	if changed("verify") {
		cfg.Verify = o.Verify
	}
	if changed("buffer-size") {
		cfg.BufferSize = o.BufferSize
	}
}
