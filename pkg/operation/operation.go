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

	"github.com/walteh/fileops/pkg/config"
	"github.com/walteh/fileops/pkg/status"
	"github.com/walteh/fileops/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation applies one parsed request to its input files. Per-file outcomes go
// to the reporter; the returned error is reserved for failures of the whole batch.
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 🔧 Options carries everything an operation needs for one run
type Options struct {
	Request  Request
	Config   *config.Config
	Pool     *worker.Pool
	Reporter status.StatusReporter
}

// 🧱 BaseOperation holds the options shared by every operation
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation creates a new base operation
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{Options: opts}
}

func (b BaseOperation) Name() string {
	return b.Request.Selector
}

// 🏭 New builds the operation matching the request kind
func New(opts Options) (Operation, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}

	switch opts.Request.Kind {
	case KindXor:
		return NewXorOperation(opts), nil
	case KindMask:
		return NewMaskOperation(opts), nil
	case KindCopy, KindFind:
		if opts.Pool == nil {
			return nil, errors.Errorf("worker pool is required for %s", opts.Request.Kind)
		}
		if opts.Request.Kind == KindCopy {
			return NewCopyOperation(opts), nil
		}
		return NewFindOperation(opts), nil
	default:
		return nil, errors.Errorf("unsupported operation kind %s", opts.Request.Kind)
	}
}

// 🏊 NewPool builds the worker pool described by cfg on top of runner.
func NewPool(cfg *config.Config, runner worker.Runner) (*worker.Pool, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return worker.New(worker.Options{
		Limit:   cfg.Workers,
		Timeout: timeout,
		Runner:  runner,
	}), nil
}

func (b BaseOperation) track(ctx context.Context, e status.Entry) {
	e.Op = b.Request.Selector
	b.Reporter.Track(ctx, e)
}
