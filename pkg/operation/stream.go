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
	"fmt"

	"github.com/walteh/fileops/pkg/bitfold"
	"github.com/walteh/fileops/pkg/maskcount"
	"github.com/walteh/fileops/pkg/status"
)

// 🧮 NewXorOperation creates the fold operation
func NewXorOperation(opts Options) Operation {
	return &xorOperation{BaseOperation: NewBaseOperation(opts)}
}

// xorOperation folds each input file in turn, in the calling goroutine.
type xorOperation struct {
	BaseOperation
}

func (op *xorOperation) Execute(ctx context.Context) error {
	for _, file := range op.Request.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := bitfold.Fold(ctx, file, op.Request.Width)
		if err != nil {
			op.track(ctx, status.Entry{Path: file, Err: err})
			continue
		}
		op.track(ctx, status.Entry{Path: file, Status: status.StatusOK, Detail: res.String()})
	}
	return nil
}

// 🎭 NewMaskOperation creates the mask counting operation
func NewMaskOperation(opts Options) Operation {
	return &maskOperation{BaseOperation: NewBaseOperation(opts)}
}

// maskOperation counts matching records of each input file in turn.
type maskOperation struct {
	BaseOperation
}

func (op *maskOperation) Execute(ctx context.Context) error {
	for _, file := range op.Request.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := maskcount.Count(ctx, file, op.Request.Mask)
		if err != nil {
			op.track(ctx, status.Entry{Path: file, Err: err})
			continue
		}
		op.track(ctx, status.Entry{
			Path:   file,
			Status: status.StatusOK,
			Detail: fmt.Sprintf("%d %s match 0x%08x", n, plural(n, "record", "records"), op.Request.Mask),
		})
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
