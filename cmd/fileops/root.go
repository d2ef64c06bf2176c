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
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileops/cmd/fileops/commands"
	"github.com/walteh/fileops/cmd/fileops/opts"
	"github.com/walteh/fileops/pkg/config"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/log"
	"github.com/walteh/fileops/pkg/operation"
	"github.com/walteh/fileops/pkg/status"
	"github.com/walteh/fileops/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

// newProcessRunner builds the runner used for isolation: process. Tests swap it
// to point workers at the test binary.
var newProcessRunner = func(runID string) (worker.Runner, error) {
	r, err := worker.NewProcessRunner(commands.WorkerCommand)
	if err != nil {
		return nil, err
	}
	r.Env = append(r.Env, worker.EnvRunID+"="+runID)
	return r, nil
}

// newRootCmd creates the fileops command tree
func newRootCmd(runID string) *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "fileops <file>... <operation>",
		Short: "Apply a file operation across a list of files",
		Long: `fileops applies one operation to every input file:

  xorN              XOR-fold the first 2^N bits of every record (2 <= N <= 6)
  maskHEX           count 4-byte records containing every bit of the mask
  mask HEX          same, with the mask as a separate argument
  copyN             write N copies of each file as <file>_1 .. <file>_N
  <needle> find     report which files contain the needle
  find <needle>     same, with the needle after the operation

copy and find run one worker per copy or per file.`,
		Example: `  fileops data.bin xor3
  fileops a.bin b.bin mask ff00
  fileops notes.txt copy5
  fileops 'logs/**/*.log' ERROR find`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, rootOpts, runID, args)
		},
	}

	addRootFlags(rootCmd, rootOpts)

	// flags end at the first file, so a needle like "-v" stays positional
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fault.Usagef("%v", err)
	})

	rootCmd.AddCommand(
		commands.NewVersionCmd(),
		commands.NewWorkerCmd(),
	)

	return rootCmd
}

// addRootFlags adds the root flags
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.Flags()
	flags.StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: discover .fileops.{yaml,yml,hcl,json})")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	flags.IntVarP(&o.Workers, "workers", "w", 0, "max concurrent workers, 0 for one per task")
	flags.StringVar(&o.Isolation, "isolation", config.IsolationGoroutine, "worker isolation: goroutine or process")
	flags.StringVar(&o.Timeout, "timeout", "", "per-worker deadline, e.g. 30s")
	flags.BoolVar(&o.Verify, "verify", false, "verify every copy against the source checksum")
	flags.IntVar(&o.BufferSize, "buffer-size", config.DefaultBufferSize, "copy buffer size in bytes")
}

// runRoot loads the configuration and runs the requested operation
func runRoot(cmd *cobra.Command, o *opts.RootOpts, runID string, args []string) error {
	ctx := cmd.Context()
	zlog := zerolog.Ctx(ctx)
	if o.Debug {
		l := zlog.Level(zerolog.DebugLevel)
		zlog = &l
		ctx = zlog.WithContext(ctx)
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}

	cfg, path, err := config.Resolve(ctx, o.ConfigFile, wd)
	if err != nil {
		return err
	}
	o.Apply(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	if cfg.Debug && !o.Debug {
		l := zlog.Level(zerolog.DebugLevel)
		zlog = &l
		ctx = zlog.WithContext(ctx)
	}

	zlog.Debug().Str("config", path).Str("settings", cfg.String()).Msg("configuration resolved")

	setupColor(cmd.OutOrStdout())

	structured := zerolog.Nop()
	if cfg.Debug {
		structured = *zlog
	}
	console := log.New(cmd.OutOrStdout(), structured)

	var runner worker.Runner = worker.InlineRunner{}
	if cfg.Isolation == config.IsolationProcess {
		runner, err = newProcessRunner(runID)
		if err != nil {
			return errors.Errorf("creating process runner: %w", err)
		}
	}

	pool, err := operation.NewPool(cfg, runner)
	if err != nil {
		return err
	}

	if path != "" {
		console.Infof("using config %s", path)
	}

	tracker := status.New(console)
	runErr := operation.NewRunner(cfg, pool, tracker).Run(log.NewContext(ctx, console), args)

	total := len(tracker.Entries())
	if total == 0 {
		return runErr
	}

	summary, err := tracker.RenderSummary()
	if err != nil {
		zlog.Debug().Err(err).Msg("rendering summary")
	} else {
		console.LogNewline()
		_, _ = console.Write([]byte(summary))
	}

	if failed := tracker.Counts()[status.StatusFailed]; failed > 0 {
		console.Errorf("%d of %d file(s) failed", failed, total)
	} else if runErr == nil {
		console.Successf("%d file(s) processed", total)
	}

	return runErr
}

// setupLogging builds the diagnostic logger. The run id is inherited from the
// parent when running as a worker process.
func setupLogging(w io.Writer, debug bool) (zerolog.Logger, string) {
	runID := os.Getenv(worker.EnvRunID)
	if runID == "" {
		runID = uuid.NewString()
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.TimeOnly,
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("run", runID).Logger()
	return logger, runID
}

// setupColor disables colored console output when w is not a terminal.
func setupColor(w io.Writer) {
	if isTerminal(w) {
		return
	}
	color.NoColor = true
	pterm.DisableColor()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
