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

// Package replicate writes N byte-exact copies of a file, one worker per copy.
//
// Copy i of src is written to "{src}_{i}" for i in 1..N. Each worker owns its
// source handle and its destination, and closes both on every path.
package replicate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/minio/sha256-simd"
	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/fsutil"
	"github.com/walteh/fileops/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultBufferSize matches the stdio BUFSIZ the tool has always copied with.
	DefaultBufferSize = 8192
	// MaxBufferSize is the largest copy buffer a worker will allocate.
	MaxBufferSize = 64 << 20

	opCopy = "copy"
)

func init() {
	worker.Register(opCopy, copyHandler)
}

// 🔧 Options tunes every copy worker of a run
type Options struct {
	BufferSize int  // bytes per read, DefaultBufferSize when zero
	Verify     bool // compare SHA-256 digests of source and copy
}

// 📦 Report collects the outcome of every copy worker
type Report struct {
	Source   string
	Outcomes []worker.Outcome // one per copy, in copy order
}

// Failures returns the outcomes of copies that did not complete.
func (r *Report) Failures() []worker.Outcome {
	var out []worker.Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// DestName returns the destination of copy i.
func DestName(src string, i int) string {
	return fmt.Sprintf("%s_%d", src, i)
}

// Replicate launches n copy workers for src and waits for all of them. The error is
// non-nil when the arguments are invalid or a worker could not be launched; in the
// latter case the report still holds the outcome of every copy.
func Replicate(ctx context.Context, pool *worker.Pool, src string, n int, opts Options) (*Report, error) {
	if n <= 0 {
		return nil, fault.Usagef("invalid copy count %d: must be positive", n)
	}

	size, err := bufferSize(src, opts.BufferSize)
	if err != nil {
		return nil, err
	}

	tasks := make([]worker.Task, n)
	for i := 1; i <= n; i++ {
		dst := DestName(src, i)
		tasks[i-1] = worker.Task{
			ID:   i,
			Name: dst,
			Op:   opCopy,
			Args: []string{src, dst, strconv.Itoa(size), strconv.FormatBool(opts.Verify)},
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", src).
		Int("copies", n).
		Int("buffer_size", size).
		Msg("replicating")

	outcomes, err := pool.Run(ctx, tasks)
	report := &Report{Source: src, Outcomes: outcomes}
	if err != nil {
		return report, errors.Errorf("replicating %s: %w", src, err)
	}
	return report, nil
}

func bufferSize(src string, size int) (int, error) {
	switch {
	case size == 0:
		return DefaultBufferSize, nil
	case size < 0:
		return 0, fault.Usagef("invalid buffer size %d", size)
	case size > MaxBufferSize:
		return 0, fault.New(fault.KindAlloc, "alloc", src,
			errors.Errorf("buffer of %d bytes exceeds the %d byte limit", size, MaxBufferSize))
	}
	return size, nil
}

// copyHandler is the worker side of a copy task: [src, dst, bufferSize, verify].
func copyHandler(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return fault.Usagef("copy: want 4 arguments, got %d", len(args))
	}
	size, err := strconv.Atoi(args[2])
	if err != nil {
		return fault.Usagef("copy: invalid buffer size %q", args[2])
	}
	if _, err := bufferSize(args[0], size); err != nil {
		return err
	}
	verify, err := strconv.ParseBool(args[3])
	if err != nil {
		return fault.Usagef("copy: invalid verify flag %q", args[3])
	}
	return CopyFile(ctx, args[0], args[1], size, verify)
}

// CopyFile streams src into a new file at dst through a buffer of bufSize bytes.
func CopyFile(ctx context.Context, src, dst string, bufSize int, verify bool) error {
	in, err := fsutil.OpenRead(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsutil.Create(dst)
	if err != nil {
		return err
	}

	n, err := copyStream(ctx, out, in, make([]byte, bufSize), src, dst)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fault.New(fault.KindWrite, "close", dst, cerr)
	}
	if err != nil {
		return err
	}

	if verify {
		if err := verifyCopy(src, dst); err != nil {
			return err
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("src", src).
		Str("dst", dst).
		Int64("bytes", n).
		Bool("verified", verify).
		Msg("copy complete")

	return nil
}

func copyStream(ctx context.Context, dst io.Writer, src io.Reader, buf []byte, srcPath, dstPath string) (int64, error) {
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, errors.Errorf("copy interrupted: %w", err)
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, fault.New(fault.KindWrite, "write", dstPath, werr)
			}
			total += int64(n)
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, fault.New(fault.KindRead, "read", srcPath, rerr)
		}
	}
}

// 🔍 verifyCopy compares the SHA-256 digests of src and dst
func verifyCopy(src, dst string) error {
	want, err := digest(src)
	if err != nil {
		return err
	}
	got, err := digest(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return fault.New(fault.KindVerify, "verify", dst,
			errors.Errorf("digest %x does not match source digest %x", got, want))
	}
	return nil
}

func digest(path string) ([]byte, error) {
	f, err := fsutil.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fault.New(fault.KindRead, "read", path, err)
	}
	return h.Sum(nil), nil
}
