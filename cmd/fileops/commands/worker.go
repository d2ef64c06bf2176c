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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/fileops/pkg/worker"

	// handlers served by worker processes
	_ "github.com/walteh/fileops/pkg/replicate"
	_ "github.com/walteh/fileops/pkg/search"
)

// WorkerCommand is the name of the hidden subcommand process workers run under.
const WorkerCommand = "worker"

// NewWorkerCmd creates the hidden command a ProcessRunner re-executes the binary
// with. It runs exactly one task and reports the outcome through its exit status.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:                WorkerCommand + " <op> [args...]",
		Short:              "Run a single task (internal)",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return worker.Serve(cmd.Context(), args)
		},
	}
}
