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

// Package version parses and compares dotted numeric versions.
//
// It is used for kernel release checks ("is the running kernel at least
// 4.9, the first with BBR?"), so it tolerates distribution suffixes:
//
//	v, _ := version.ParseVersion("6.8.0-45-generic") // 6.8.0, Extras "-45-generic"
//	v.Compare(version.MustParseVersion("4.9"))      // 1
package version
