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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/log"
	"github.com/walteh/fileops/pkg/search"
	"github.com/walteh/fileops/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔎 NewFindOperation creates the parallel search operation
func NewFindOperation(opts Options) Operation {
	return &findOperation{BaseOperation: NewBaseOperation(opts)}
}

// findOperation searches every input file in its own worker.
type findOperation struct {
	BaseOperation
}

func (op *findOperation) Execute(ctx context.Context) error {
	if op.Request.Needle == "" {
		log.FromContext(ctx).Warningf("empty search string matches nothing in %d file(s)", len(op.Request.Files))
		zerolog.Ctx(ctx).Debug().
			Err(fault.New(fault.KindEmptyNeedle, "find", "", errors.Errorf("empty search string"))).
			Int("code", fault.KindEmptyNeedle.Code()).
			Msg("reporting every file as not found")
	}

	results, err := search.SearchAll(ctx, op.Pool, op.Request.Files, op.Request.Needle)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("search halted early")
	}

	for _, r := range results {
		e := status.Entry{Path: r.Path}
		switch {
		case r.Err != nil:
			e.Err = r.Err
		case r.Found:
			e.Status = status.StatusOK
			e.Detail = "found"
		default:
			e.Status = status.StatusNotFound
		}
		op.track(ctx, e)
	}
	return nil
}
