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

// Package cli implements the host-tuner command-line interface.
//
// # Commands
//
// apply - Tune the host:
//
//	host-tuner apply [--dry-run] [--boot] [--format text|json|yaml|table] [--output FILE]
//
// Detects the primary interface, mutates NIC, kernel, CPU and service
// tunables, persists kernel parameters and installs the boot-time unit.
// Requires root unless --dry-run is set. The boot unit runs apply --boot
// with the same profile, plus --interface and --config when they were given.
//
// verify - Check the host:
//
//	host-tuner verify [--format text|json|yaml|table] [--output FILE]
//	                  [--metrics-file FILE] [--skip-connectivity]
//
// Classifies every tunable as pass, warn or fail, probes connectivity and
// prints a report. Exits 1 when any critical tunable failed.
//
// snapshot - Read-only capture of every tunable:
//
//	host-tuner snapshot [--format yaml|json|table] [--output FILE] [--metrics-file FILE]
//
// tunables - List the tunables of a profile:
//
//	host-tuner tunables [--format yaml|json|table]
//
// # Global Flags
//
//	--config        Config file (default /etc/host-tuner/config.yaml, then $HOME/.host-tuner.yaml)
//	--log-level     Log level: debug, info, warn, error (env LOG_LEVEL)
//	--profile, -p   Tuning profile: standard, hft
//	--interface, -i Network interface, overrides detection
//
// Flags override HOST_TUNER_* environment variables, which override the
// config file.
//
// # Exit Codes
//
//	0  Success (apply completed, or verify found no failures)
//	1  Error, or verify found at least one failed tunable
package cli
