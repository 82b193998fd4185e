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

// Package sysctlconf persists kernel parameters into a block of the system
// sysctl file delimited by
//
//	# BEGIN host-tuner managed block
//	...
//	# END host-tuner managed block
//
// An existing block is replaced in place and lines outside it are never
// touched, so repeated writes never duplicate entries. The file is written
// only when its content changes, atomically, after copying the previous
// content to <path>.host-tuner.<YYYYMMDD-HHMMSS>.bak.
package sysctlconf
