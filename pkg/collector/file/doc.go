// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package file parses line-oriented text from files and command output.
//
// A Parser splits content into records (newline by default), drops blanks
// and '#' comments, and optionally splits records into key/value pairs:
//
//	p := file.NewParser(file.WithDelimiter(" "), file.WithKVDelimiter("="))
//	params, err := p.GetMap("/proc/cmdline")
//
// The same parser handles text that did not come from a file:
//
//	kv := file.NewParser(file.WithKVDelimiter(":")).ParseMap(ethtoolOutput)
//
// GetValue reads single-value files such as /proc/sys entries and
// normalizes whitespace so multi-field values compare reliably.
package file
