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

// Package maskcount counts the 32-bit records of a file that carry every bit of a mask.
package maskcount

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/fsutil"
	"gitlab.com/tozd/go/errors"
)

// RecordSize is the width of one record in bytes.
const RecordSize = 4

const (
	readBufferSize = 64 * 1024
	ctxCheckEvery  = 16384 // records between cancellation checks
)

// ParseMask parses hexadecimal text, with or without a 0x prefix, into a mask.
func ParseMask(text string) (uint32, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fault.Usagef("empty mask")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fault.Usagef("invalid mask %q: must be a 32-bit hex value", text)
	}
	return uint32(v), nil
}

// Matches reports whether every bit of mask is set in record.
func Matches(record, mask uint32) bool {
	return record&mask == mask
}

// Count returns the number of complete records in the file at path that match mask.
func Count(ctx context.Context, path string, mask uint32) (int, error) {
	f, err := fsutil.OpenRead(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count, err := CountReader(ctx, f, mask)
	if err != nil {
		return 0, errors.Errorf("counting %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("mask", strconv.FormatUint(uint64(mask), 16)).
		Int("count", count).
		Msg("mask count complete")

	return count, nil
}

// CountReader counts matching records read from r in native byte order. A trailing
// partial record is dropped.
func CountReader(ctx context.Context, r io.Reader, mask uint32) (int, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	var rec [RecordSize]byte
	count := 0

	for i := 0; ; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, errors.Errorf("count interrupted: %w", err)
			}
		}

		_, err := io.ReadFull(br, rec[:])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return count, nil
		}
		if err != nil {
			return 0, fault.New(fault.KindRead, "read", "", err)
		}

		if Matches(binary.NativeEndian.Uint32(rec[:]), mask) {
			count++
		}
	}
}
