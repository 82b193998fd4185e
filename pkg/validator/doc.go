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

// Package validator classifies observed tunable values against their
// expectations and summarizes a verify run.
//
// # Expectations
//
// Each tunable carries an expectation expression:
//   - a plain value: exact match after whitespace normalization
//     ("bbr", "4096 87380 16777216")
//   - ">=", "<=", ">", "<": version comparison (">= 4.9" against
//     "6.8.0-45-generic")
//   - "==", "!=": equality, version-aware when the value looks like one
//   - "max": the value equals its pre-set hardware maximum (ring buffers)
//
// # Classification
//
//	present and matching         pass
//	mismatch or absent, warn     warn
//	mismatch or absent, fail     fail
//
// Results fold into a ReportTally. The exit code is 0 iff the tally has no
// failures. The verdict is "optimal" when nothing warns or fails, "core"
// when only warnings remain, and "failed" otherwise, in which case the
// message carries the remediation steps.
//
// # Usage
//
//	v := validator.NewVerifier(probe.New(iface),
//	    validator.WithProfile(tunable.ProfileHFT),
//	    validator.WithProber(connectivity.New()))
//	result, err := v.Verify(ctx)
//	if err != nil {
//	    return err
//	}
//	os.Exit(result.ExitCode())
package validator
