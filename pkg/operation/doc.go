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
Package operation is the dispatcher: it turns a command line into one of the four
file operations and runs it over every input file.

🎯 Purpose:
- Parses the trailing selector (xorN, maskHEX, mask HEX, copyN, find)
- Expands glob inputs and drops excluded paths
- Runs the matching component and reports one entry per file

🔄 Flow:
1. Parse splits the arguments into input files and a Request
2. ExpandInputs resolves globs and exclude patterns
3. New picks the Operation for the request kind
4. Execute reports every per-file outcome to the status tracker

⚡ Concurrency:
xor and mask stream each file in turn in the calling goroutine. copy and find fan
out through the worker pool, one worker per replica or per input file, and join
before reporting.

🔍 Example:

	runner := operation.NewRunner(cfg, pool, tracker)
	err := runner.Run(log.NewContext(ctx, console), []string{"a.bin", "b.bin", "xor3"})
*/
package operation
