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
	"fmt"
	"strconv"
	"strings"

	"github.com/walteh/fileops/pkg/bitfold"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/maskcount"
)

// 🏷️ Kind names one of the four operations
type Kind int

const (
	KindUnknown Kind = iota
	KindXor          // xorN
	KindMask         // maskHEX or mask HEX
	KindCopy         // copyN
	KindFind         // <needle> find or find <needle>
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindXor:
		return "xor"
	case KindMask:
		return "mask"
	case KindCopy:
		return "copy"
	case KindFind:
		return "find"
	default:
		return "unknown"
	}
}

// 📋 Request is a parsed command line
type Request struct {
	Kind     Kind
	Selector string   // selector as shown in output, e.g. "xor3" or "mask ff"
	Files    []string // input files in command line order
	Width    bitfold.Width
	Mask     uint32
	Copies   int
	Needle   string
}

// Usage is the one-line synopsis printed with usage faults.
const Usage = "fileops <file>... (xorN | maskHEX | mask HEX | copyN | <needle> find | find <needle>)"

// Parse reads the trailing operation selector and its parameters from args. Every
// token before the selector is an input file.
func Parse(args []string) (Request, error) {
	if len(args) < 2 {
		return Request{}, fault.Usagef("need at least one file and an operation: %s", Usage)
	}

	last := args[len(args)-1]
	prev := args[len(args)-2]

	switch {
	case last == "find":
		return withFiles(Request{Kind: KindFind, Selector: "find", Needle: prev}, args[:len(args)-2])
	case prev == "find":
		return withFiles(Request{Kind: KindFind, Selector: "find", Needle: last}, args[:len(args)-2])
	case prev == "mask":
		m, err := maskcount.ParseMask(last)
		if err != nil {
			return Request{}, err
		}
		return withFiles(Request{Kind: KindMask, Selector: "mask " + last, Mask: m}, args[:len(args)-2])
	}

	files := args[:len(args)-1]

	switch {
	case strings.HasPrefix(last, "xor"):
		n, err := strconv.Atoi(strings.TrimPrefix(last, "xor"))
		if err != nil {
			return Request{}, fault.Usagef("invalid width in %q: want xor2 to xor6", last)
		}
		w := bitfold.Width(n)
		if err := w.Validate(); err != nil {
			return Request{}, err
		}
		return withFiles(Request{Kind: KindXor, Selector: last, Width: w}, files)

	case strings.HasPrefix(last, "mask"):
		text := strings.TrimPrefix(last, "mask")
		if text == "" {
			return Request{}, fault.Usagef("mask needs a hex value: maskHEX or mask HEX")
		}
		m, err := maskcount.ParseMask(text)
		if err != nil {
			return Request{}, err
		}
		return withFiles(Request{Kind: KindMask, Selector: last, Mask: m}, files)

	case strings.HasPrefix(last, "copy"):
		n, err := strconv.Atoi(strings.TrimPrefix(last, "copy"))
		if err != nil || n <= 0 {
			return Request{}, fault.Usagef("invalid copy count in %q: want a positive integer", last)
		}
		return withFiles(Request{Kind: KindCopy, Selector: last, Copies: n}, files)
	}

	return Request{}, fault.Usagef("unknown operation %q: %s", last, Usage)
}

func withFiles(req Request, files []string) (Request, error) {
	if len(files) == 0 {
		return Request{}, fault.Usagef("%s needs at least one input file", req.Kind)
	}
	req.Files = append([]string(nil), files...)
	return req, nil
}

// String renders the request the way it would be typed.
func (r Request) String() string {
	switch r.Kind {
	case KindFind:
		return fmt.Sprintf("%s %q", r.Selector, r.Needle)
	default:
		return r.Selector
	}
}
