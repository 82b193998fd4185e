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

import (
	"github.com/mchmarny/host-tuner/pkg/connectivity"
	"github.com/mchmarny/host-tuner/pkg/header"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Status is the classification of one tunable.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// ProbeResult is the classified observation of one tunable.
type ProbeResult struct {
	Name        string           `json:"name" yaml:"name"`
	Category    tunable.Category `json:"category" yaml:"category"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Expected    string           `json:"expected" yaml:"expected"`

	// Observed is nil when the value could not be read.
	Observed *string          `json:"observed" yaml:"observed"`
	Matched  bool             `json:"matched" yaml:"matched"`
	Status   Status           `json:"status" yaml:"status"`
	Severity tunable.Severity `json:"severity" yaml:"severity"`
	Message  string           `json:"message,omitempty" yaml:"message,omitempty"`
}

// ObservedString returns the observed value or "absent".
func (r ProbeResult) ObservedString() string {
	if r.Observed == nil {
		return "absent"
	}
	return *r.Observed
}

// Verdict is the overall outcome of a verify run.
type Verdict string

const (
	// VerdictOptimal means every tunable passed.
	VerdictOptimal Verdict = "optimal"
	// VerdictCore means nothing critical failed but some optional tunables warn.
	VerdictCore Verdict = "core"
	// VerdictFailed means at least one critical tunable failed.
	VerdictFailed Verdict = "failed"
)

// VerifyResult is the complete outcome of a verify run.
type VerifyResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Interface    string               `json:"interface" yaml:"interface"`
	Profile      tunable.Profile      `json:"profile" yaml:"profile"`
	Results      []ProbeResult        `json:"results" yaml:"results"`
	Tally        ReportTally          `json:"tally" yaml:"tally"`
	Connectivity *connectivity.Result `json:"connectivity,omitempty" yaml:"connectivity,omitempty"`
	Verdict      Verdict              `json:"verdict" yaml:"verdict"`
	Message      string               `json:"message" yaml:"message"`
}

// ExitCode returns the process exit code for the result.
func (r *VerifyResult) ExitCode() int {
	return ExitCode(r.Tally)
}
