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

// Package config loads the fileops run configuration.
//
// 🎯 Purpose:
// - Finds the configuration file (explicit path or discovery)
// - Parses YAML, JSON or HCL through a parser registry
// - Validates values and fills in defaults
//
// 🔄 Flow:
// 1. Resolve picks --config, else the first of Candidates in the working directory
// 2. GetParser selects a parser by file extension
// 3. The parser decodes strictly, unknown keys are rejected
// 4. Validate turns bad values into usage faults
//
// 📝 Example (.fileops.yaml):
//
//	workers: 8
//	isolation: process
//	buffer_size: 65536
//	timeout: 30s
//	verify: true
//	exclude:
//	  - "**/*.tmp"
//
// 📝 Example (.fileops.hcl):
//
//	workers   = cpus * 2
//	isolation = "goroutine"
//	exclude   = ["**/.git/**"]
//
// HCL expressions can reference `cpus`, the number of logical CPUs.
package config
