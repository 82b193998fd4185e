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

package tuner

import (
	"github.com/mchmarny/host-tuner/pkg/bootunit"
	"github.com/mchmarny/host-tuner/pkg/header"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Status is the outcome of one mutation.
type Status string

const (
	StatusChanged     Status = "changed"
	StatusUnchanged   Status = "unchanged"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
	StatusPlanned     Status = "planned"
)

// Mode selects how much of Apply runs.
type Mode string

const (
	// ModeApply mutates, persists kernel parameters and installs the boot unit.
	ModeApply Mode = "apply"
	// ModeBoot only mutates; the boot unit runs in this mode.
	ModeBoot Mode = "boot"
	// ModeDryRun reads and plans without writing anything.
	ModeDryRun Mode = "dry-run"
)

// ItemOutcome records what happened to one tunable.
type ItemOutcome struct {
	Name     string           `json:"name" yaml:"name"`
	Category tunable.Category `json:"category" yaml:"category"`
	Target   string           `json:"target" yaml:"target"`
	Before   string           `json:"before,omitempty" yaml:"before,omitempty"`
	After    string           `json:"after,omitempty" yaml:"after,omitempty"`
	Status   Status           `json:"status" yaml:"status"`
	Message  string           `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary counts outcomes by status.
type Summary struct {
	Changed     int `json:"changed" yaml:"changed"`
	Unchanged   int `json:"unchanged" yaml:"unchanged"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
	Failed      int `json:"failed" yaml:"failed"`
	Planned     int `json:"planned" yaml:"planned"`
}

// Summarize counts items by status.
func Summarize(items []ItemOutcome) Summary {
	var s Summary
	for _, it := range items {
		switch it.Status {
		case StatusChanged:
			s.Changed++
		case StatusUnchanged:
			s.Unchanged++
		case StatusUnsupported:
			s.Unsupported++
		case StatusFailed:
			s.Failed++
		case StatusPlanned:
			s.Planned++
		}
	}
	return s
}

// ApplyResult is the outcome of an apply run.
type ApplyResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Interface string          `json:"interface" yaml:"interface"`
	Profile   tunable.Profile `json:"profile" yaml:"profile"`
	Mode      Mode            `json:"mode" yaml:"mode"`
	Items     []ItemOutcome   `json:"items" yaml:"items"`
	Summary   Summary         `json:"summary" yaml:"summary"`

	// Persisted is true when the sysctl file was rewritten.
	Persisted    bool   `json:"persisted" yaml:"persisted"`
	PersistPath  string `json:"persistPath,omitempty" yaml:"persistPath,omitempty"`
	PersistError string `json:"persistError,omitempty" yaml:"persistError,omitempty"`

	Unit      *bootunit.Result `json:"unit,omitempty" yaml:"unit,omitempty"`
	UnitError string           `json:"unitError,omitempty" yaml:"unitError,omitempty"`
}
