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

package status

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// RenderSummary renders the recorded entries as a table followed by a totals
// line. Entries are ordered by path.
func (t *Tracker) RenderSummary() (string, error) {
	entries := t.sorted()
	if len(entries) == 0 {
		return "", nil
	}

	data := pterm.TableData{{"File", "Op", "Status", "Result"}}
	for _, e := range entries {
		result := e.Detail
		if e.Status == StatusFailed && e.Err != nil {
			result = e.Err.Error()
		}
		data = append(data, []string{e.Path, e.Op, statusCell(e.Status), result})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering summary: %w", err)
	}

	counts := t.Counts()
	var b strings.Builder
	b.WriteString(table)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d ok, %d not found, %d failed\n",
		counts[StatusOK], counts[StatusNotFound], counts[StatusFailed])
	return b.String(), nil
}

func statusCell(s FileStatus) string {
	switch s {
	case StatusOK:
		return pterm.Green(s.String())
	case StatusFailed:
		return pterm.Red(s.String())
	default:
		return pterm.Cyan(s.String())
	}
}
