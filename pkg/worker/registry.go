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
	"context"
	"sort"
	"sync"

	"github.com/walteh/fileops/pkg/fault"
)

// Handler executes one task inside a worker. It owns every resource it opens and
// must release them before returning.
type Handler func(ctx context.Context, args []string) error

var (
	// 🗺️ handlers maps a task op to the code that runs it
	handlersMu sync.RWMutex
	handlers   = map[string]Handler{}
)

// 📝 Register makes a handler available to every runner under op
func Register(op string, h Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[op] = h
}

// 🎯 Lookup returns the handler registered under op
func Lookup(op string) (Handler, bool) {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	h, ok := handlers[op]
	return h, ok
}

// Ops lists the registered ops in sorted order.
func Ops() []string {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	ops := make([]string, 0, len(handlers))
	for op := range handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Serve runs the task described by args, in the form [op, arg...], in the current
// process. It is the child side of ProcessRunner.
func Serve(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fault.Usagef("worker: missing task op")
	}
	h, ok := Lookup(args[0])
	if !ok {
		return fault.Usagef("worker: unknown task op %q", args[0])
	}
	return h(ctx, args[1:])
}
