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

/*
Package bitfold XOR-folds a file into a single 2^N-bit window.

The file is read as consecutive chunks of TotalBytes bytes. Every chunk is XORed
into an accumulator of the same length, so the result is independent of how the
reads are split up:

	width N | bits | full bytes | remaining bits | chunk
	   2    |   4  |     0      |       4        |   1
	   3    |   8  |     1      |       0        |   1
	   4    |  16  |     2      |       0        |   2
	   5    |  32  |     4      |       0        |   4
	   6    |  64  |     8      |       0        |   8

When the window is not byte aligned only the low RemainingBits bits of the last
accumulator byte are meaningful; the high bits are masked off on every fold and
stay zero. A short final chunk is zero padded, so it contributes only its own bytes.
*/
package bitfold

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/fsutil"
	"gitlab.com/tozd/go/errors"
)

const (
	MinWidth Width = 2
	MaxWidth Width = 6

	readBufferSize = 64 * 1024
	ctxCheckEvery  = 4096 // chunks between cancellation checks
)

// 📐 Width is the N of an xorN request: the window is 2^N bits wide
type Width int

// Validate reports a usage fault when the width is outside [MinWidth, MaxWidth].
func (w Width) Validate() error {
	if w < MinWidth || w > MaxWidth {
		return fault.Usagef("invalid width %d: must be between %d and %d", int(w), int(MinWidth), int(MaxWidth))
	}
	return nil
}

func (w Width) Bits() int          { return 1 << w }
func (w Width) FullBytes() int     { return w.Bits() / 8 }
func (w Width) RemainingBits() int { return w.Bits() % 8 }

// TotalBytes is the chunk size and the accumulator length.
func (w Width) TotalBytes() int {
	if w.RemainingBits() > 0 {
		return w.FullBytes() + 1
	}
	return w.FullBytes()
}

// 🧮 Accumulator folds fixed-width chunks with XOR
type Accumulator struct {
	width Width
	full  int
	rem   int
	mask  byte
	block []byte
	acc   []byte
}

// NewAccumulator creates a zeroed accumulator for the given width.
func NewAccumulator(w Width) (*Accumulator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	total := w.TotalBytes()
	return &Accumulator{
		width: w,
		full:  w.FullBytes(),
		rem:   w.RemainingBits(),
		mask:  byte(1<<w.RemainingBits()) - 1,
		block: make([]byte, total),
		acc:   make([]byte, total),
	}, nil
}

// Fold XORs one chunk into the accumulator. Bytes past TotalBytes are ignored and
// a short chunk behaves as if it were zero padded.
func (a *Accumulator) Fold(chunk []byte) {
	n := copy(a.block, chunk)
	clear(a.block[n:])

	for i := 0; i < a.full; i++ {
		a.acc[i] ^= a.block[i]
	}

	// a chunk that stops before the partial byte contributes nothing to it
	if a.rem > 0 && n >= a.full {
		a.acc[a.full] ^= a.block[a.full] & a.mask
	}
}

// Finalize returns a snapshot of the accumulator.
func (a *Accumulator) Finalize() Result {
	out := make([]byte, len(a.acc))
	copy(out, a.acc)
	return Result{Width: a.width, Bytes: out, RemainingBits: a.rem}
}

// 📦 Result is the folded window of one file
type Result struct {
	Width         Width
	Bytes         []byte // TotalBytes long; the last byte is partial when RemainingBits > 0
	RemainingBits int
}

// Full returns the whole bytes of the window.
func (r Result) Full() []byte {
	return r.Bytes[:r.Width.FullBytes()]
}

// Partial returns the partial byte, if the window has one.
func (r Result) Partial() (byte, bool) {
	if r.RemainingBits == 0 {
		return 0, false
	}
	return r.Bytes[len(r.Bytes)-1], true
}

// IsZero reports whether every bit of the window is zero.
func (r Result) IsZero() bool {
	for _, b := range r.Bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// String renders the window as hex, e.g. "1f 0a" or "f (4 bits)".
func (r Result) String() string {
	parts := make([]string, 0, len(r.Bytes))
	for _, b := range r.Full() {
		parts = append(parts, fmt.Sprintf("%02x", b))
	}
	if p, ok := r.Partial(); ok {
		parts = append(parts, fmt.Sprintf("%x (%d bits)", p, r.RemainingBits))
	}
	return strings.Join(parts, " ")
}

// Fold streams the file at path through an accumulator of width w.
func Fold(ctx context.Context, path string, w Width) (Result, error) {
	if err := w.Validate(); err != nil {
		return Result{}, err
	}

	f, err := fsutil.OpenRead(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	res, err := FoldReader(ctx, f, w)
	if err != nil {
		return Result{}, errors.Errorf("folding %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("width", int(w)).
		Str("result", res.String()).
		Msg("fold complete")

	return res, nil
}

// FoldReader folds everything r yields until EOF.
func FoldReader(ctx context.Context, r io.Reader, w Width) (Result, error) {
	acc, err := NewAccumulator(w)
	if err != nil {
		return Result{}, err
	}

	br := bufio.NewReaderSize(r, readBufferSize)
	chunk := make([]byte, w.TotalBytes())

	for i := 0; ; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, errors.Errorf("fold interrupted: %w", err)
			}
		}

		n, err := io.ReadFull(br, chunk)
		if n > 0 {
			acc.Fold(chunk[:n])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return Result{}, fault.New(fault.KindRead, "read", "", err)
		}
	}

	return acc.Finalize(), nil
}
