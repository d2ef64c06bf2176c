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

// Package fault defines the failure kinds shared by every fileops operation and
// their mapping to process exit statuses.
package fault

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind classifies a failure
type Kind int

const (
	KindUnknown     Kind = iota
	KindOpen             // source or destination could not be opened
	KindAlloc            // working buffer could not be obtained
	KindSpawn            // worker could not be launched
	KindEmptyNeedle      // degenerate search input
	KindUsage            // malformed selector or parameters
	KindWrite            // destination write or close failed
	KindRead             // source read failed mid-stream
	KindVerify           // replica digest differs from source
	KindTimeout          // worker exceeded its deadline
)

// ErrNoMatch is reported by a search worker that scanned its file without a hit.
// It is an outcome, not a failure.
var ErrNoMatch = errors.Base("no match")

// NoMatchStatus is the exit status of a search worker process that found nothing.
const NoMatchStatus = 1

var kindCodes = map[Kind]int{
	KindOpen:        -1,
	KindAlloc:       -2,
	KindSpawn:       -3,
	KindEmptyNeedle: -4,
	KindUsage:       -5,
	KindWrite:       -6,
	KindRead:        -7,
	KindVerify:      -8,
	KindTimeout:     -9,
}

// Code returns the signed code of the kind. Unknown failures use -128.
func (k Kind) Code() int {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return -128
}

// ExitStatus returns the code as seen by a parent process.
func (k Kind) ExitStatus() int {
	return k.Code() & 0xff
}

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindAlloc:
		return "alloc"
	case KindSpawn:
		return "spawn"
	case KindEmptyNeedle:
		return "empty-needle"
	case KindUsage:
		return "usage"
	case KindWrite:
		return "write"
	case KindRead:
		return "read"
	case KindVerify:
		return "verify"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// KindFromExitStatus reverses ExitStatus. Statuses that match no kind map to KindUnknown.
func KindFromExitStatus(status int) Kind {
	for k, c := range kindCodes {
		if c&0xff == status {
			return k
		}
	}
	return KindUnknown
}

// ❌ Error is a failure bound to one file and the step that failed
type Error struct {
	Kind Kind
	Op   string // step that failed, e.g. "open", "write", "spawn"
	Path string // file the step was operating on, may be empty
	Err  error
}

// New creates a fault of the given kind.
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Usagef creates a usage fault with a formatted message.
func Usagef(format string, args ...any) error {
	return &Error{Kind: KindUsage, Op: "usage", Err: errors.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first fault in err's chain.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitStatus maps an error to a process exit status: 0 for nil, NoMatchStatus for
// ErrNoMatch, the kind's status otherwise.
func ExitStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoMatch):
		return NoMatchStatus
	default:
		return KindOf(err).ExitStatus()
	}
}
