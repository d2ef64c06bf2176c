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

package replicate_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileops/pkg/fault"
	"github.com/walteh/fileops/pkg/replicate"
	"github.com/walteh/fileops/pkg/worker"
)

const envHelper = "FILEOPS_TEST_WORKER"

func TestMain(m *testing.M) {
	if os.Getenv(envHelper) == "1" {
		err := worker.Serve(context.Background(), os.Args[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(fault.ExitStatus(err))
	}
	os.Exit(m.Run())
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func sourceFile(t *testing.T, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	rand.New(rand.NewSource(int64(size))).Read(data)
	path := filepath.Join(t.TempDir(), "source.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func TestDestName(t *testing.T) {
	assert.Equal(t, "/tmp/a.txt_1", replicate.DestName("/tmp/a.txt", 1))
	assert.Equal(t, "data_50", replicate.DestName("data", 50))
}

func TestReplicateProducesExactCopies(t *testing.T) {
	for _, n := range []int{1, 5, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ctx := testContext(t)
			src, data := sourceFile(t, 20_000+n)

			report, err := replicate.Replicate(ctx, worker.New(worker.Options{Limit: 8}), src, n, replicate.Options{})
			require.NoError(t, err)
			require.Len(t, report.Outcomes, n)
			assert.Empty(t, report.Failures())

			for i := 1; i <= n; i++ {
				got, err := os.ReadFile(replicate.DestName(src, i))
				require.NoError(t, err)
				assert.Equal(t, data, got, "copy %d", i)
			}
			_, err = os.Stat(replicate.DestName(src, n+1))
			assert.True(t, os.IsNotExist(err), "no extra copy is written")
		})
	}
}

func TestReplicateSmallBufferAndVerify(t *testing.T) {
	ctx := testContext(t)
	src, data := sourceFile(t, 10_001)

	report, err := replicate.Replicate(ctx, worker.New(worker.Options{}), src, 3, replicate.Options{BufferSize: 7, Verify: true})
	require.NoError(t, err)
	assert.Empty(t, report.Failures())

	got, err := os.ReadFile(replicate.DestName(src, 3))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReplicateEmptySource(t *testing.T) {
	ctx := testContext(t)
	src, _ := sourceFile(t, 0)

	report, err := replicate.Replicate(ctx, worker.New(worker.Options{}), src, 2, replicate.Options{Verify: true})
	require.NoError(t, err)
	assert.Empty(t, report.Failures())

	info, err := os.Stat(replicate.DestName(src, 2))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestReplicateOverwritesStaleCopy(t *testing.T) {
	ctx := testContext(t)
	src, data := sourceFile(t, 64)
	require.NoError(t, os.WriteFile(replicate.DestName(src, 1), make([]byte, 4096), 0o644))

	_, err := replicate.Replicate(ctx, worker.New(worker.Options{}), src, 1, replicate.Options{})
	require.NoError(t, err)

	got, err := os.ReadFile(replicate.DestName(src, 1))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReplicateMissingSource(t *testing.T) {
	ctx := testContext(t)
	src := filepath.Join(t.TempDir(), "missing.bin")

	report, err := replicate.Replicate(ctx, worker.New(worker.Options{}), src, 3, replicate.Options{})
	require.NoError(t, err, "open failures are per worker")
	require.Len(t, report.Failures(), 3)

	for i, o := range report.Outcomes {
		assert.True(t, fault.Is(o.Err, fault.KindOpen))
		assert.NoFileExists(t, replicate.DestName(src, i+1))
	}
}

func TestReplicateUnwritableDestination(t *testing.T) {
	ctx := testContext(t)
	src, _ := sourceFile(t, 128)
	// a directory squatting on the second destination name
	require.NoError(t, os.Mkdir(replicate.DestName(src, 2), 0o755))

	report, err := replicate.Replicate(ctx, worker.New(worker.Options{}), src, 3, replicate.Options{})
	require.NoError(t, err)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, 2, failures[0].Task.ID)
	assert.True(t, fault.Is(failures[0].Err, fault.KindOpen))
	assert.FileExists(t, replicate.DestName(src, 1))
	assert.FileExists(t, replicate.DestName(src, 3))
}

func TestReplicateInvalidArguments(t *testing.T) {
	ctx := testContext(t)
	src, _ := sourceFile(t, 16)
	pool := worker.New(worker.Options{})

	_, err := replicate.Replicate(ctx, pool, src, 0, replicate.Options{})
	assert.True(t, fault.Is(err, fault.KindUsage))

	_, err = replicate.Replicate(ctx, pool, src, 2, replicate.Options{BufferSize: -1})
	assert.True(t, fault.Is(err, fault.KindUsage))

	_, err = replicate.Replicate(ctx, pool, src, 2, replicate.Options{BufferSize: replicate.MaxBufferSize + 1})
	assert.True(t, fault.Is(err, fault.KindAlloc))
	assert.NoFileExists(t, replicate.DestName(src, 1))
}

func TestReplicateInWorkerProcesses(t *testing.T) {
	ctx := testContext(t)
	src, data := sourceFile(t, 5000)
	runner := &worker.ProcessRunner{Path: os.Args[0], Env: []string{envHelper + "=1"}}

	report, err := replicate.Replicate(ctx, worker.New(worker.Options{Runner: runner}), src, 4, replicate.Options{Verify: true})
	require.NoError(t, err)
	assert.Empty(t, report.Failures())

	for i := 1; i <= 4; i++ {
		got, err := os.ReadFile(replicate.DestName(src, i))
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestCopyFileMissingSourceLeavesNoDestination(t *testing.T) {
	dir := t.TempDir()
	err := replicate.CopyFile(testContext(t), filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 16, false)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindOpen))
	assert.NoFileExists(t, filepath.Join(dir, "dst"))
}
