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

// Package command runs the external tools host-tuner depends on (ethtool,
// cpupower, ping) with a bounded wait and classified errors.
//
// Executor wraps k8s.io/utils/exec. Errors are StructuredErrors:
// UNSUPPORTED when the binary is missing or the driver rejects the
// operation, TIMEOUT when the per-command deadline passes, INTERNAL
// otherwise. FakeRunner is the test double used across packages.
package command
