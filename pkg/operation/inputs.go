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

package operation

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ExpandInputs resolves the input list. An argument naming an existing path is
// kept as is, once per occurrence. An argument with glob meta characters is
// expanded with doublestar, skipping paths already listed; a pattern matching
// nothing is kept literally so it is reported as an open failure. Paths matching
// any exclude pattern, by full path or base name, are dropped. Order is preserved.
func ExpandInputs(args, exclude []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))

	add := func(p string) {
		seen[p] = true
		out = append(out, p)
	}

	for _, arg := range args {
		if _, err := os.Lstat(arg); err == nil || !hasMeta(arg) {
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			add(arg)
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				add(m)
			}
		}
	}

	if len(exclude) == 0 {
		return out, nil
	}

	kept := out[:0]
	for _, p := range out {
		excluded, err := isExcluded(p, exclude)
		if err != nil {
			return nil, err
		}
		if !excluded {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

func isExcluded(path string, exclude []string) (bool, error) {
	for _, pattern := range exclude {
		for _, candidate := range []string{path, filepath.Base(path)} {
			ok, err := doublestar.PathMatch(pattern, candidate)
			if err != nil {
				return false, errors.Errorf("matching exclude pattern %q: %w", pattern, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
