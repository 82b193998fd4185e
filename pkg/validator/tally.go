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

package validator

// ReportTally counts classifications. It is a value: Add returns the
// updated tally and leaves the receiver untouched.
type ReportTally struct {
	Pass int `json:"pass" yaml:"pass"`
	Warn int `json:"warn" yaml:"warn"`
	Fail int `json:"fail" yaml:"fail"`
}

// Add returns t with status counted.
func (t ReportTally) Add(s Status) ReportTally {
	switch s {
	case StatusPass:
		t.Pass++
	case StatusWarn:
		t.Warn++
	case StatusFail:
		t.Fail++
	}
	return t
}

// Total returns the number of classified tunables.
func (t ReportTally) Total() int {
	return t.Pass + t.Warn + t.Fail
}

// Fold tallies results starting from the zero tally.
func Fold(results []ProbeResult) ReportTally {
	var t ReportTally
	for _, r := range results {
		t = t.Add(r.Status)
	}
	return t
}

// ExitCode is 0 iff nothing failed.
func ExitCode(t ReportTally) int {
	if t.Fail == 0 {
		return 0
	}
	return 1
}

const (
	msgOptimal = "All optimizations verified: the system is fully optimized for low-latency networking."
	msgCore    = "Core optimizations verified; some optional tunables are not at target (see warnings)."
	msgFailed  = "Critical optimizations are missing. Remediation: run 'sudo host-tuner apply', reboot, then run 'host-tuner verify' again."
)

// VerdictFor maps a tally to its verdict and the message printed for it.
func VerdictFor(t ReportTally) (Verdict, string) {
	switch {
	case t.Fail > 0:
		return VerdictFailed, msgFailed
	case t.Warn > 0:
		return VerdictCore, msgCore
	default:
		return VerdictOptimal, msgOptimal
	}
}
