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

// Package tunable holds the static table of OS-level settings host-tuner
// manages.
//
// Each Spec names how the value is read (ethtool output, /proc/sys, sysfs,
// the kernel command line, a systemd unit property), the expected value,
// whether apply may change it, and the severity used by verify when it is
// absent or off target.
//
// The "standard" and "hft" profiles are data, not code paths: every entry
// lists the profiles it belongs to and ForProfile filters the one table.
package tunable
