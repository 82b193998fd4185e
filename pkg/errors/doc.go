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

// Package errors provides structured errors with classification codes.
//
// Besides the generic codes (NOT_FOUND, TIMEOUT, INTERNAL, ...) the package
// defines the tuning taxonomy used across the tool:
//
//   - UNSUPPORTED: a command, file or NIC feature is absent on this host.
//     Reported as a warning, the run continues.
//   - MISMATCH: the value is readable but not at its target.
//   - CRITICAL_MISSING: a fail-severity tunable is absent or off target.
//     The scan continues, the overall run reports failure.
//   - FATAL: nothing can be done (no network interface). The run aborts.
//
// Usage:
//
//	return errors.WrapWithContext(errors.ErrCodeUnsupported,
//	    "ethtool not available", err, map[string]any{"interface": iface})
//
// Callers inspect codes with IsCode or CodeOf rather than string matching.
package errors
