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

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/replicate"
	"github.com/walteh/fileops/pkg/status"
	"github.com/walteh/fileops/pkg/worker"
)

// 📦 NewCopyOperation creates a new copy operation
func NewCopyOperation(opts Options) Operation {
	return &copyOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 📦 copyOperation replicates every input file N times
type copyOperation struct {
	BaseOperation
}

// 🏃 Execute runs the copy operation
func (op *copyOperation) Execute(ctx context.Context) error {
	opts := replicate.Options{
		BufferSize: op.Config.BufferSize,
		Verify:     op.Config.Verify,
	}

	for _, file := range op.Request.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		op.processFile(ctx, file, opts)
	}
	return nil
}

// 📄 processFile replicates one source and tracks every copy
func (op *copyOperation) processFile(ctx context.Context, file string, opts replicate.Options) {
	logger := zerolog.Ctx(ctx)

	report, err := replicate.Replicate(ctx, op.Pool, file, op.Request.Copies, opts)
	if report == nil {
		op.track(ctx, status.Entry{Path: file, Err: err})
		return
	}
	if err != nil {
		logger.Debug().Err(err).Str("path", file).Msg("replication halted early")
	}

	for _, o := range report.Outcomes {
		op.track(ctx, copyEntry(file, o, opts.Verify))
	}
}

func copyEntry(src string, o worker.Outcome, verified bool) status.Entry {
	e := status.Entry{Path: o.Task.Name, Elapsed: o.Elapsed}
	if !o.OK() {
		e.Err = o.Err
		return e
	}
	e.Status = status.StatusOK
	e.Detail = fmt.Sprintf("copy of %s", src)
	if verified {
		e.Detail += ", verified"
	}
	return e
}
