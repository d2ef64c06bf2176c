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
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/config"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/log"
	"github.com/walteh/fileops/pkg/status"
	"github.com/walteh/fileops/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

// ❌ FilesFailedError reports a run in which at least one file failed. Err is the
// first failure recorded and Status the exit status it maps to.
type FilesFailedError struct {
	Failed int
	Status int
	Err    error
}

func (e *FilesFailedError) Error() string {
	return fmt.Sprintf("%d file(s) failed, first: %v", e.Failed, e.Err)
}

func (e *FilesFailedError) Unwrap() error {
	return e.Err
}

// 🏃 OperationRunner turns a command line into an executed operation
type OperationRunner struct {
	config  *config.Config
	pool    *worker.Pool
	tracker *status.Tracker
}

// 🏗️ NewRunner creates a new runner
func NewRunner(cfg *config.Config, pool *worker.Pool, tracker *status.Tracker) *OperationRunner {
	return &OperationRunner{
		config:  cfg,
		pool:    pool,
		tracker: tracker,
	}
}

// 🏃 Run parses args, expands the inputs and executes the operation. It returns a
// usage fault for a bad command line, the operation's own error when the batch
// could not run, or a FilesFailedError when any file failed. ctx must carry a
// console logger (see log.NewContext).
func (r *OperationRunner) Run(ctx context.Context, args []string) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	req, err := Parse(args)
	if err != nil {
		return err
	}

	files, err := ExpandInputs(req.Files, r.config.Exclude)
	if err != nil {
		return fault.New(fault.KindUsage, "expand", "", err)
	}
	if len(files) == 0 {
		return fault.Usagef("no input files left after applying exclude patterns")
	}
	req.Files = files

	op, err := New(Options{
		Request:  req,
		Config:   r.config,
		Pool:     r.pool,
		Reporter: r.tracker,
	})
	if err != nil {
		return errors.Errorf("creating operation: %w", err)
	}

	logger.Debug().
		Str("op", op.Name()).
		Strs("files", req.Files).
		Str("config", r.config.String()).
		Msg("running operation")

	console.Header(req.String())

	start := time.Now()
	r.tracker.StartOperation(ctx, req.Selector, len(req.Files))
	err = op.Execute(ctx)
	r.tracker.FinishOperation(ctx)

	logger.Debug().
		Str("op", op.Name()).
		Dur("elapsed", time.Since(start)).
		AnErr("error", err).
		Msg("operation finished")

	if err != nil {
		return errors.Errorf("running %s: %w", op.Name(), err)
	}

	if first := r.tracker.Err(); first != nil {
		return &FilesFailedError{
			Failed: r.tracker.Counts()[status.StatusFailed],
			Status: r.tracker.ExitStatus(),
			Err:    first,
		}
	}
	return nil
}
