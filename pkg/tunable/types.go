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

package tunable

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

// Severity decides how a missing or off-target tunable is classified.
type Severity string

const (
	// SeverityWarn tunables are optional: absent or mismatched means warn.
	SeverityWarn Severity = "warn"
	// SeverityFail tunables are critical: absent or mismatched means fail.
	SeverityFail Severity = "fail"
)

// Profile selects a subset of the catalog.
type Profile string

const (
	// ProfileStandard is general low-latency networking.
	ProfileStandard Profile = "standard"
	// ProfileHFT adds busy polling, C-state disabling and stricter NIC settings.
	ProfileHFT Profile = "hft"
)

// Profiles lists every supported profile.
var Profiles = []Profile{ProfileStandard, ProfileHFT}

// ParseProfile parses a profile name (case-insensitive).
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Profiles, p) {
		return p, nil
	}
	return "", terrors.NewWithContext(terrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown profile %q", s), map[string]any{"supported": Profiles})
}

// String returns the profile name.
func (p Profile) String() string {
	return string(p)
}

// Category groups tunables in reports.
type Category string

const (
	CategoryNIC     Category = "nic"
	CategoryKernel  Category = "kernel"
	CategoryCPU     Category = "cpu"
	CategoryService Category = "service"
)

// Categories lists categories in report order.
var Categories = []Category{CategoryNIC, CategoryKernel, CategoryCPU, CategoryService}

// Source is the mechanism used to read a tunable.
type Source string

const (
	// SourceCommand runs Command (with {iface} substituted) and parses the
	// output according to Format.
	SourceCommand Source = "command"
	// SourceSysctl reads /proc/sys/<Key with dots as slashes>.
	SourceSysctl Source = "sysctl"
	// SourceSysfs reads every file matching the Path glob; all must agree.
	SourceSysfs Source = "sysfs"
	// SourceCmdline reads Key from the kernel boot parameters.
	SourceCmdline Source = "cmdline"
	// SourceService reads Property of the systemd unit named by Key.
	SourceService Source = "service"
	// SourceKernel reads the running kernel release.
	SourceKernel Source = "kernel"
)

// Format is the output layout of a SourceCommand tool.
type Format string

const (
	FormatCoalesce Format = "coalesce"
	FormatFeatures Format = "features"
	FormatRing     Format = "ring"
	FormatRaw      Format = "raw"
)

// Placeholders substituted in command templates and keys.
const (
	PlaceholderInterface = "{iface}"
	PlaceholderUnit      = "{unit}"
)

// ExpectMaximum is the expectation that a value sits at its pre-set maximum.
const ExpectMaximum = "max"

// Spec describes one OS-level tunable: how to read it, what it should be,
// how to set it, and how much it matters.
type Spec struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`

	Source  Source   `json:"source" yaml:"source"`
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
	Format  Format   `json:"format,omitempty" yaml:"format,omitempty"`

	// Key is the field in the parsed output, the sysctl name, the cmdline
	// parameter, or the unit name depending on Source.
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Property string `json:"property,omitempty" yaml:"property,omitempty"`

	// Expect is an expectation expression: a plain value for exact match,
	// an operator expression (">= 4.9") or ExpectMaximum.
	Expect   string   `json:"expect" yaml:"expect"`
	Severity Severity `json:"severity" yaml:"severity"`

	// Mutable tunables are set by apply. SetKey overrides Key for the
	// setter when the tool uses a different name (ethtool -K gro).
	Mutable bool   `json:"mutable" yaml:"mutable"`
	SetKey  string `json:"setKey,omitempty" yaml:"setKey,omitempty"`

	// Prepare is run best effort before setting (modprobe tcp_bbr).
	Prepare []string `json:"prepare,omitempty" yaml:"prepare,omitempty"`

	// Persist sysctl tunables are written to the managed sysctl block.
	Persist bool `json:"persist" yaml:"persist"`

	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// InProfile reports whether the spec belongs to p.
func (s Spec) InProfile(p Profile) bool {
	return slices.Contains(s.Profiles, p)
}

// CommandFor returns the read command with the interface substituted.
func (s Spec) CommandFor(iface string) []string {
	out := make([]string, len(s.Command))
	for i, a := range s.Command {
		out[i] = strings.ReplaceAll(a, PlaceholderInterface, iface)
	}
	return out
}

// SysctlPath maps the sysctl key to its file under root.
func (s Spec) SysctlPath(root string) string {
	return filepath.Join(root, strings.ReplaceAll(s.Key, ".", "/"))
}

// SetterKey returns the key the setter uses.
func (s Spec) SetterKey() string {
	if s.SetKey != "" {
		return s.SetKey
	}
	return s.Key
}

// UnitName returns Key with the unit placeholder resolved.
func (s Spec) UnitName(unit string) string {
	return strings.ReplaceAll(s.Key, PlaceholderUnit, unit)
}
