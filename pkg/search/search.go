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

// Package search tests files for a literal substring, one worker per file.
//
// The scan is a plain positional one: every window start from 0 to
// size-len(needle) is compared byte by byte, each byte read at its absolute
// offset. It is O(size * len(needle)) by intent; the only shortcut is stopping at
// the first full match.
package search

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/fsutil"
	"github.com/walteh/fileops/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

const (
	opFind = "find"

	pageSize      = 64 * 1024
	ctxCheckEvery = 8192 // window starts between cancellation checks
)

func init() {
	worker.Register(opFind, findHandler)
}

// 🔎 Result is the search outcome for one file
type Result struct {
	Path  string
	Found bool
	Err   error // set when the file could not be searched
}

// SearchAll launches one worker per file and waits for all of them. Results are in
// file order. The error is non-nil only when a worker could not be launched, and
// the results are still complete.
func SearchAll(ctx context.Context, pool *worker.Pool, files []string, needle string) ([]Result, error) {
	tasks := make([]worker.Task, len(files))
	for i, file := range files {
		tasks[i] = worker.Task{
			ID:   i + 1,
			Name: file,
			Op:   opFind,
			Args: []string{file, needle},
		}
	}

	outcomes, err := pool.Run(ctx, tasks)

	results := make([]Result, len(outcomes))
	for i, o := range outcomes {
		results[i] = Result{Path: o.Task.Name}
		switch {
		case o.Err == nil:
			results[i].Found = true
		case errors.Is(o.Err, fault.ErrNoMatch):
		default:
			results[i].Err = o.Err
		}
	}

	if err != nil {
		return results, errors.Errorf("searching: %w", err)
	}
	return results, nil
}

// findHandler is the worker side of a find task: [file, needle]. A miss is
// reported as fault.ErrNoMatch.
func findHandler(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fault.Usagef("find: want 2 arguments, got %d", len(args))
	}
	found, err := Contains(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !found {
		return fault.ErrNoMatch
	}
	return nil
}

// Contains reports whether the file at path contains needle. An empty needle
// matches nothing.
func Contains(ctx context.Context, path, needle string) (bool, error) {
	f, err := fsutil.OpenRead(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if needle == "" {
		return false, nil
	}

	size, err := fsutil.Size(f)
	if err != nil {
		return false, err
	}

	found, err := Scan(ctx, f, size, []byte(needle))
	if err != nil {
		return false, errors.Errorf("searching %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int64("size", size).
		Bool("found", found).
		Msg("search complete")

	return found, nil
}

// Scan runs the positional scan over the first size bytes of r.
func Scan(ctx context.Context, r io.ReaderAt, size int64, needle []byte) (bool, error) {
	if len(needle) == 0 {
		return false, nil
	}

	pr := &pagedReader{r: r, page: make([]byte, pageSize)}
	last := size - int64(len(needle))

	for i := int64(0); i <= last; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return false, errors.Errorf("scan interrupted: %w", err)
			}
		}

		match := true
		for j := range needle {
			b, err := pr.ByteAt(i + int64(j))
			if err != nil {
				return false, fault.New(fault.KindRead, "read", "", err)
			}
			if b != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// 📄 pagedReader serves single-byte positional reads from one cached page
type pagedReader struct {
	r    io.ReaderAt
	page []byte
	off  int64 // file offset of page[0]
	n    int   // valid bytes in page
}

// ByteAt returns the byte at absolute offset pos.
func (p *pagedReader) ByteAt(pos int64) (byte, error) {
	if pos >= p.off && pos < p.off+int64(p.n) {
		return p.page[pos-p.off], nil
	}

	n, err := p.r.ReadAt(p.page, pos)
	if n == 0 {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		p.n = 0
		return 0, err
	}
	p.off, p.n = pos, n
	return p.page[0], nil
}
