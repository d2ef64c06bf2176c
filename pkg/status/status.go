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
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/log"
)

// 📊 FileStatus represents the final state of one file in a batch
type FileStatus int

const (
	StatusUnknown  FileStatus = iota
	StatusOK                  // operation produced its result
	StatusNotFound            // search finished without a hit
	StatusFailed              // operation failed for this file
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Entry is the record of one file's outcome
type Entry struct {
	Path    string        // file the entry belongs to
	Op      string        // operation selector
	Status  FileStatus    // final state
	Detail  string        // result payload, e.g. the fold or the count
	Err     error         // failure, set when Status is StatusFailed
	Elapsed time.Duration // worker wall time, zero for inline results
}

// 📈 StatusReporter tracks per-file outcomes and reports progress
type StatusReporter interface {
	StartOperation(ctx context.Context, op string, total int)
	Track(ctx context.Context, e Entry)
	FinishOperation(ctx context.Context)
}

// 🔧 Tracker collects the entries of a run and prints each one as it arrives
type Tracker struct {
	logger    *log.Logger
	formatter FileFormatter

	mu      sync.Mutex
	entries []Entry

	op        string
	total     int
	processed int
}

var _ StatusReporter = (*Tracker)(nil)

// 🏭 New creates a new tracker
func New(logger *log.Logger) *Tracker {
	return &Tracker{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
	}
}

func (t *Tracker) StartOperation(ctx context.Context, op string, total int) {
	t.mu.Lock()
	t.op = op
	t.total = total
	t.processed = 0
	t.mu.Unlock()

	t.logger.StartBatch(ctx, log.Batch{Op: op, Files: total})
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

// Track records one entry and prints its result line.
func (t *Tracker) Track(ctx context.Context, e Entry) {
	if e.Err != nil {
		e.Status = StatusFailed
	}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.processed++
	processed, total := t.processed, t.total
	t.mu.Unlock()

	t.logger.LogFileResult(ctx, toResult(e))

	ev := zerolog.Ctx(ctx).Debug().
		Str("path", e.Path).
		Int("processed", processed).
		Int("total", total)
	if e.Err != nil {
		ev = ev.Str("error", t.formatter.FormatError(e.Err))
	}
	ev.Msg(t.formatter.FormatEntry(e))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.Lock()
	processed, total := t.processed, t.total
	t.mu.Unlock()

	t.logger.EndBatch(ctx)
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", total).
		Msg(t.formatter.FormatProgress(processed, total))
}

// Entries returns a copy of the recorded entries in arrival order.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Err returns the first failure recorded, or nil when every file succeeded.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.entries {
		if e.Status == StatusFailed {
			return e.Err
		}
	}
	return nil
}

// ExitStatus maps the run to a process exit status: 0 when every file
// succeeded, the status of the first failure otherwise.
func (t *Tracker) ExitStatus() int {
	return fault.ExitStatus(t.Err())
}

// 📊 Counts tallies entries by status
func (t *Tracker) Counts() map[FileStatus]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make(map[FileStatus]int)
	for _, e := range t.entries {
		counts[e.Status]++
	}
	return counts
}

// sorted returns the entries ordered by path, keeping arrival order for equal paths.
func (t *Tracker) sorted() []Entry {
	out := t.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func toResult(e Entry) log.FileResult {
	r := log.FileResult{
		Path:   e.Path,
		Op:     e.Op,
		Status: e.Status.String(),
		Detail: e.Detail,
	}
	switch e.Status {
	case StatusOK:
		r.Kind = log.ResultOK
	case StatusFailed:
		r.Kind = log.ResultFailed
		if e.Err != nil {
			r.Detail = e.Err.Error()
		}
	default:
		r.Kind = log.ResultNeutral
	}
	return r
}
