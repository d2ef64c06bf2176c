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
Package status records the per-file outcome of a fileops run and reports it.

🎯 Purpose:
- Collects one Entry per input file (or per replica for copy)
- Prints each result line as soon as it is known
- Derives the process exit status from the recorded failures
- Renders an end-of-run summary table

🔄 Flow:
1. StartOperation announces the batch
2. Track is called once per file, in any order and from any goroutine
3. FinishOperation closes the batch
4. ExitStatus and RenderSummary read the final state

⚡ Exit status:
A run exits 0 when every entry succeeded. A search that finds nothing is a
successful entry (StatusNotFound). Otherwise the status of the first failure
recorded is used, see fault.ExitStatus.

🤝 Interfaces:
- StatusReporter: the surface operations write to
- FileFormatter: formats structured log messages
*/
package status
