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
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func newTestTracker(w io.Writer) *Tracker {
	return New(log.New(w, zerolog.Nop()))
}

func TestTracker(t *testing.T) {
	openErr := fault.New(fault.KindOpen, "open", "missing.bin", errors.New("no such file or directory"))
	writeErr := fault.New(fault.KindWrite, "write", "b_2", errors.New("disk full"))

	tests := []struct {
		name       string
		entries    []Entry
		wantStatus int
		wantErr    error
		wantCounts map[FileStatus]int
	}{
		{
			name:       "empty_run",
			wantStatus: 0,
			wantCounts: map[FileStatus]int{},
		},
		{
			name: "all_ok",
			entries: []Entry{
				{Path: "a.bin", Op: "xor2", Status: StatusOK, Detail: "0f"},
				{Path: "b.bin", Op: "xor2", Status: StatusOK, Detail: "00"},
			},
			wantStatus: 0,
			wantCounts: map[FileStatus]int{StatusOK: 2},
		},
		{
			name: "not_found_is_success",
			entries: []Entry{
				{Path: "a.bin", Op: "find", Status: StatusOK},
				{Path: "b.bin", Op: "find", Status: StatusNotFound},
			},
			wantStatus: 0,
			wantCounts: map[FileStatus]int{StatusOK: 1, StatusNotFound: 1},
		},
		{
			name: "first_failure_wins",
			entries: []Entry{
				{Path: "a.bin", Op: "mask", Status: StatusOK, Detail: "3"},
				{Path: "missing.bin", Op: "mask", Err: openErr},
				{Path: "b_2", Op: "copy", Err: writeErr},
			},
			wantStatus: fault.KindOpen.ExitStatus(),
			wantErr:    openErr,
			wantCounts: map[FileStatus]int{StatusOK: 1, StatusFailed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tracker := newTestTracker(io.Discard)

			tracker.StartOperation(ctx, "op", len(tt.entries))
			for _, e := range tt.entries {
				tracker.Track(ctx, e)
			}
			tracker.FinishOperation(ctx)

			assert.Equal(t, tt.wantStatus, tracker.ExitStatus())
			assert.Equal(t, tt.wantErr, tracker.Err())
			assert.Equal(t, tt.wantCounts, tracker.Counts())
			assert.Len(t, tracker.Entries(), len(tt.entries))
		})
	}
}

func TestTrackMarksErrorsFailed(t *testing.T) {
	debug := &bytes.Buffer{}
	ctx := zerolog.New(debug).Level(zerolog.DebugLevel).WithContext(context.Background())

	tracker := newTestTracker(io.Discard)
	tracker.Track(ctx, Entry{Path: "x", Op: "xor3", Status: StatusOK, Err: errors.New("boom")})

	entries := tracker.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Contains(t, debug.String(), `"error":"❌ Error: boom"`)
}

func TestTrackPrintsResultLines(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	tracker := newTestTracker(buf)
	ctx := context.Background()

	tracker.StartOperation(ctx, "find", 2)
	tracker.Track(ctx, Entry{Path: "a.bin", Op: "find", Status: StatusOK, Detail: "found"})
	tracker.Track(ctx, Entry{Path: "b.bin", Op: "find", Status: StatusNotFound})
	tracker.FinishOperation(ctx)

	out := buf.String()
	assert.Contains(t, out, "◆ find • 2 file(s)")
	assert.Contains(t, out, "✓ a.bin")
	assert.Contains(t, out, "• b.bin")
	assert.Contains(t, out, "not found")
}

func TestTrackConcurrent(t *testing.T) {
	tracker := newTestTracker(io.Discard)
	ctx := context.Background()

	const n = 64
	tracker.StartOperation(ctx, "xor2", n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.Track(ctx, Entry{Path: fmt.Sprintf("f%02d", i), Op: "xor2", Status: StatusOK})
		}(i)
	}
	wg.Wait()
	tracker.FinishOperation(ctx)

	assert.Len(t, tracker.Entries(), n)
	assert.Equal(t, n, tracker.Counts()[StatusOK])
}

func TestRenderSummary(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	tracker := newTestTracker(io.Discard)
	ctx := context.Background()

	empty, err := tracker.RenderSummary()
	require.NoError(t, err)
	assert.Empty(t, empty)

	tracker.Track(ctx, Entry{Path: "b.bin", Op: "mask", Status: StatusOK, Detail: "7"})
	tracker.Track(ctx, Entry{Path: "a.bin", Op: "mask", Err: fault.New(fault.KindOpen, "open", "a.bin", errors.New("denied"))})

	out, err := tracker.RenderSummary()
	require.NoError(t, err)

	assert.Contains(t, out, "File")
	assert.Contains(t, out, "open a.bin: denied")
	assert.Contains(t, out, "1 ok, 0 not found, 1 failed")
	assert.Less(t, bytes.Index([]byte(out), []byte("a.bin")), bytes.Index([]byte(out), []byte("b.bin")), "rows are sorted by path")
}
