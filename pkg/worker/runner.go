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

package worker

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/walteh/fileops/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 🚀 Runner launches a worker for one task
type Runner interface {
	// Start launches the worker. An error means nothing was launched.
	Start(ctx context.Context, task Task) (Handle, error)
}

// ⏳ Handle is a launched worker
type Handle interface {
	// Wait blocks until the worker exits and returns its outcome.
	Wait() error
}

type handleFunc func() error

func (f handleFunc) Wait() error { return f() }

// 🧵 InlineRunner runs handlers on the calling goroutine
type InlineRunner struct{}

func (InlineRunner) Start(ctx context.Context, task Task) (Handle, error) {
	h, ok := Lookup(task.Op)
	if !ok {
		return nil, fault.New(fault.KindSpawn, "spawn", task.Name, errors.Errorf("no handler registered for %q", task.Op))
	}
	return handleFunc(func() error {
		return h(ctx, task.Args)
	}), nil
}

// EnvRunID carries the parent's run id into worker processes.
const EnvRunID = "FILEOPS_RUN_ID"

// maxStderr caps how much of a worker's stderr is kept for error messages.
const maxStderr = 4096

// 🧬 ProcessRunner runs every task in a fresh copy of an executable
//
// The child is invoked as `Path Args... op taskArgs...` and is expected to call
// Serve. Its exit status is translated back into a fault kind; the last line it
// wrote to stderr becomes the error detail.
type ProcessRunner struct {
	Path string   // executable to run
	Args []string // leading arguments, e.g. the hidden worker subcommand
	Env  []string // added to the parent's environment
}

// NewProcessRunner re-executes the current binary with the given leading arguments.
func NewProcessRunner(args ...string) (*ProcessRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Errorf("locating executable: %w", err)
	}
	return &ProcessRunner{Path: exe, Args: args}, nil
}

func (r *ProcessRunner) Start(ctx context.Context, task Task) (Handle, error) {
	args := make([]string, 0, len(r.Args)+1+len(task.Args))
	args = append(args, r.Args...)
	args = append(args, task.Op)
	args = append(args, task.Args...)

	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	stderr := &tailBuffer{limit: maxStderr}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fault.New(fault.KindSpawn, "spawn", task.Name, err)
	}

	return handleFunc(func() error {
		return processOutcome(task, cmd.Wait(), stderr.String())
	}), nil
}

func processOutcome(task Task, err error, stderr string) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fault.New(fault.KindUnknown, "wait", task.Name, err)
	}

	status := exitErr.ExitCode()
	if status == fault.NoMatchStatus {
		return fault.ErrNoMatch
	}

	detail := lastLine(stderr)
	if detail == "" {
		detail = exitErr.String()
	}
	return fault.New(fault.KindFromExitStatus(status), "worker", task.Name,
		errors.Errorf("exited with status %d: %s", status, detail))
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.limit; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}
