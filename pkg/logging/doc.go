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

// Package logging configures structured logging for host-tuner.
//
// All components log through log/slog. This package builds the JSON handler,
// attaches the module name and version to every record, and picks the level.
//
// Features:
//   - JSON output on stderr, so stdout stays free for reports
//   - Module and version attributes on every record
//   - Source location for debug logs
//   - Level from the --log-level flag or the LOG_LEVEL environment variable
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: every probe read and command invocation, with source location
//   - INFO: per-tunable apply outcomes and run summaries (default)
//   - WARN/WARNING: unsupported features, mismatches
//   - ERROR: failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("host-tuner", version)
//	    slog.Info("applying profile", "profile", "hft", "interface", "eth0")
//	}
//
// Explicit level, as the CLI does after parsing flags:
//
//	logging.SetDefaultStructuredLoggerWithLevel("host-tuner", version, "debug")
//
// # Output Format
//
//	{
//	    "time": "2026-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "tunable changed",
//	    "module": "host-tuner",
//	    "version": "v1.0.0",
//	    "tunable": "busy_poll",
//	    "from": "0",
//	    "to": "50"
//	}
package logging
