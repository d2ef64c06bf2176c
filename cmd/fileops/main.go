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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger, runID := setupLogging(stderr, false)
	ctx = logger.WithContext(ctx)

	rootCmd := newRootCmd(runID)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	reportError(stderr, err)

	var failed *operation.FilesFailedError
	if errors.As(err, &failed) {
		return failed.Status
	}
	return fault.ExitStatus(err)
}

// reportError prints err unless every part of it was already shown per file.
func reportError(w io.Writer, err error) {
	var failed *operation.FilesFailedError
	if errors.As(err, &failed) {
		return
	}
	if errors.Is(err, fault.ErrNoMatch) {
		return
	}

	fmt.Fprintf(w, "fileops: %v\n", err)
	if fault.Is(err, fault.KindUsage) {
		fmt.Fprintf(w, "usage: %s\n", operation.Usage)
	}
}
