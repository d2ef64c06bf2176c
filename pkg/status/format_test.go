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

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/fileops/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestEntryFormatting tests per-file message formatting
func TestEntryFormatting(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry
		want        string
		description string
	}{
		{
			name:        "fold_result",
			entry:       Entry{Path: "a.bin", Op: "xor2", Status: StatusOK, Detail: "0f"},
			want:        "✨ xor2 a.bin: 0f",
			description: "should include the result payload",
		},
		{
			name:        "replica_written",
			entry:       Entry{Path: "a.bin_1", Op: "copy3", Status: StatusOK},
			want:        "✨ copy3 a.bin_1",
			description: "should omit the separator when there is no payload",
		},
		{
			name:        "not_found",
			entry:       Entry{Path: "b.bin", Op: "find", Status: StatusNotFound},
			want:        "🔍 find b.bin: not found",
			description: "should report a negative search",
		},
		{
			name: "failed",
			entry: Entry{
				Path:   "c.bin",
				Op:     "mask",
				Status: StatusFailed,
				Err:    fault.New(fault.KindOpen, "open", "c.bin", errors.New("no such file or directory")),
			},
			want:        "❌ mask c.bin: open c.bin: no such file or directory",
			description: "should include the failure",
		},
		{
			name:        "unknown",
			entry:       Entry{Path: "d.bin", Op: "xor4"},
			want:        "❔ xor4 d.bin",
			description: "should handle an unset status",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatEntry(tt.entry), tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{"zero_progress", 0, 10, "⏳ Progress: 0/10 (0%)"},
		{"half_progress", 5, 10, "⏳ Progress: 5/10 (50%)"},
		{"complete", 10, 10, "✅ Progress: 10/10 (100%)"},
		{"empty_batch", 0, 0, "✅ Progress: 0/0 (0%)"},
		{"overflow", 3, 0, "✅ Progress: 3/0 (100%)"},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "", formatter.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", formatter.FormatError(errors.New("boom")))
}
