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

// Package fsutil holds the file-opening helpers shared by the streaming operations.
// Every failure is returned as a fault carrying the path.
package fsutil

import (
	"os"

	"github.com/walteh/fileops/pkg/fault"
)

// OpenRead opens path for streaming reads and hints the kernel that the file
// will be read front to back.
func OpenRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.New(fault.KindOpen, "open", path, err)
	}
	adviseSequential(f)
	return f, nil
}

// Create opens path for writing, truncating an existing file.
func Create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fault.New(fault.KindOpen, "create", path, err)
	}
	return f, nil
}

// Size returns the size of an open file.
func Size(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fault.New(fault.KindRead, "stat", f.Name(), err)
	}
	return info.Size(), nil
}
