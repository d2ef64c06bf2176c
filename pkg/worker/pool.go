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
Package worker fans a batch of tasks out to independent workers and joins them all.

Every task is owned by exactly one worker. Workers share no memory with each other:
each writes only its own Outcome slot, and the parent reads the slots after the
join barrier. A worker is either a goroutine (InlineRunner) or a re-executed copy of
the current binary (ProcessRunner); both run the same registered Handler.

	Run(tasks)
	   |
	   +-- Start(task 1) --> Wait --> outcome[0]
	   +-- Start(task 2) --> Wait --> outcome[1]
	   +-- ...
	   |
	join all launched workers

If a worker cannot be started, no further workers are launched, the ones already
running are still joined, and Run reports a spawn fault next to the outcomes.
*/
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/fileops/pkg/fault"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrNotLaunched marks a task that was skipped after an earlier launch failure.
var ErrNotLaunched = errors.Base("not launched")

// 📋 Task is one unit of work bound to one file
type Task struct {
	ID   int      // 1-based position in the batch
	Name string   // file the task owns, used to tag results
	Op   string   // registered handler
	Args []string // handler arguments
}

// 📬 Outcome is what the parent learns about one finished task
type Outcome struct {
	Task     Task
	Launched bool
	Err      error
	Elapsed  time.Duration
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// 🔧 Options configures a pool
type Options struct {
	// Limit caps the number of workers running at once. Zero runs every task at once.
	Limit int
	// Timeout bounds every worker. Zero means no deadline.
	Timeout time.Duration
	// Runner launches workers. Defaults to InlineRunner.
	Runner Runner
}

// 🏊 Pool runs task batches
type Pool struct {
	limit   int
	timeout time.Duration
	runner  Runner
}

// 🏭 New creates a pool
func New(opts Options) *Pool {
	r := opts.Runner
	if r == nil {
		r = InlineRunner{}
	}
	return &Pool{
		limit:   opts.Limit,
		timeout: opts.Timeout,
		runner:  r,
	}
}

// Run launches one worker per task and blocks until every launched worker has
// finished. Outcomes are returned in task order. The error is non-nil only when a
// worker could not be launched.
func (p *Pool) Run(ctx context.Context, tasks []Task) ([]Outcome, error) {
	logger := zerolog.Ctx(ctx)
	outcomes := make([]Outcome, len(tasks))

	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}

	var halted atomic.Bool
	for i, task := range tasks {
		outcomes[i].Task = task

		if halted.Load() {
			outcomes[i].Err = fault.New(fault.KindSpawn, "spawn", task.Name, ErrNotLaunched)
			continue
		}
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = fault.New(fault.KindSpawn, "spawn", task.Name, errors.Errorf("%w (%s)", ErrNotLaunched, err))
			continue
		}

		i, task := i, task
		g.Go(func() error {
			outcomes[i] = p.run(ctx, task, &halted)
			return nil
		})
	}

	// workers fail independently, so the group never carries an error
	_ = g.Wait()

	launched := 0
	var spawnErr error
	for _, o := range outcomes {
		if o.Launched {
			launched++
		} else if spawnErr == nil {
			spawnErr = o.Err
		}
	}

	logger.Debug().
		Int("tasks", len(tasks)).
		Int("launched", launched).
		Msg("worker batch joined")

	if spawnErr != nil {
		return outcomes, errors.Errorf("launching workers: %w", spawnErr)
	}
	return outcomes, nil
}

// 🏃 run starts one worker and waits for it
func (p *Pool) run(ctx context.Context, task Task, halted *atomic.Bool) Outcome {
	out := Outcome{Task: task}

	// a sibling may have failed to launch while this one waited for a slot
	if halted.Load() {
		out.Err = fault.New(fault.KindSpawn, "spawn", task.Name, ErrNotLaunched)
		return out
	}

	tctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	h, err := p.runner.Start(tctx, task)
	if err != nil {
		halted.Store(true)
		if !fault.Is(err, fault.KindSpawn) {
			err = fault.New(fault.KindSpawn, "spawn", task.Name, err)
		}
		out.Err = err
		return out
	}
	out.Launched = true

	err = h.Wait()
	out.Elapsed = time.Since(start)

	if err != nil && ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		err = fault.New(fault.KindTimeout, "wait", task.Name, errors.Errorf("worker exceeded %s: %w", p.timeout, err))
	}
	out.Err = err

	zerolog.Ctx(ctx).Debug().
		Int("worker", task.ID).
		Str("op", task.Op).
		Str("path", task.Name).
		Dur("elapsed", out.Elapsed).
		AnErr("outcome", err).
		Msg("worker finished")

	return out
}
