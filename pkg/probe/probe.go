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

package probe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mchmarny/host-tuner/pkg/collector/file"
	"github.com/mchmarny/host-tuner/pkg/command"
	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// ValueMixed is reported when the files behind a sysfs glob disagree.
const ValueMixed = "mixed"

// CmdlinePresent is the value of a key-only boot parameter.
const CmdlinePresent = "present"

// Reading is the observed state of one tunable. Present=false means the
// value could not be determined; Err carries the reason.
type Reading struct {
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Max     string `json:"max,omitempty" yaml:"max,omitempty"`
	Present bool   `json:"present" yaml:"present"`
	Err     error  `json:"-" yaml:"-"`
}

// Found returns a present reading.
func Found(value string) Reading {
	return Reading{Value: value, Present: true}
}

// Absent returns a reading with no value.
func Absent(err error) Reading {
	return Reading{Err: err}
}

// Reader maps a tunable to its observed value.
type Reader interface {
	Read(ctx context.Context, spec tunable.Spec) Reading
}

// Probe reads tunables from the live host. It never modifies state.
type Probe struct {
	iface       string
	unit        string
	runner      command.Runner
	manager     systemd.Manager
	procSysRoot string
	sysCPURoot  string
	cmdlinePath string
}

// Option configures a Probe.
type Option func(*Probe)

// WithRunner sets the command runner used for tool output.
func WithRunner(r command.Runner) Option {
	return func(p *Probe) {
		p.runner = r
	}
}

// WithManager sets the systemd client used for service tunables.
func WithManager(m systemd.Manager) Option {
	return func(p *Probe) {
		p.manager = m
	}
}

// WithProcSysRoot overrides /proc/sys.
func WithProcSysRoot(root string) Option {
	return func(p *Probe) {
		p.procSysRoot = root
	}
}

// WithSysCPURoot overrides /sys/devices/system/cpu.
func WithSysCPURoot(root string) Option {
	return func(p *Probe) {
		p.sysCPURoot = root
	}
}

// WithCmdlinePath overrides /proc/cmdline.
func WithCmdlinePath(path string) Option {
	return func(p *Probe) {
		p.cmdlinePath = path
	}
}

// WithUnitName sets the name substituted for the boot unit placeholder.
func WithUnitName(unit string) Option {
	return func(p *Probe) {
		p.unit = unit
	}
}

// New returns a Probe for the given network interface.
func New(iface string, opts ...Option) *Probe {
	p := &Probe{
		iface:       iface,
		unit:        defaults.UnitName,
		procSysRoot: defaults.ProcSysRoot,
		sysCPURoot:  defaults.SysCPURoot,
		cmdlinePath: defaults.ProcCmdline,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = command.New()
	}
	if p.manager == nil {
		p.manager = systemd.NewManager()
	}
	return p
}

// Interface returns the interface NIC tunables are read from.
func (p *Probe) Interface() string {
	return p.iface
}

// Read returns the observed value of spec. Missing tools, files, units or
// unparsable output yield an absent reading, never a panic.
func (p *Probe) Read(ctx context.Context, spec tunable.Spec) (r Reading) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("probe panicked", "tunable", spec.Name, "panic", rec)
			r = Absent(terrors.New(terrors.ErrCodeInternal, fmt.Sprintf("probe panicked: %v", rec)))
		}
	}()

	switch spec.Source {
	case tunable.SourceCommand:
		r = p.readCommand(ctx, spec)
	case tunable.SourceSysctl, tunable.SourceKernel:
		r = p.readSysctl(spec)
	case tunable.SourceSysfs:
		r = p.readSysfs(spec)
	case tunable.SourceCmdline:
		r = p.readCmdline(spec)
	case tunable.SourceService:
		r = p.readService(ctx, spec)
	default:
		r = Absent(terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"unknown tunable source", map[string]any{"source": spec.Source}))
	}

	if !r.Present {
		slog.Debug("tunable absent", "tunable", spec.Name, "error", r.Err)
	}
	return r
}

func (p *Probe) readCommand(ctx context.Context, spec tunable.Spec) Reading {
	if p.iface == "" && strings.Contains(strings.Join(spec.Command, " "), tunable.PlaceholderInterface) {
		return Absent(terrors.New(terrors.ErrCodeUnsupported, "no network interface"))
	}

	args := spec.CommandFor(p.iface)
	out, err := p.runner.Run(ctx, args[0], args[1:]...)
	if err != nil {
		return Absent(terrors.Wrap(terrors.ErrCodeUnsupported, "command failed", err))
	}

	var values, maximums map[string]string
	switch spec.Format {
	case tunable.FormatCoalesce:
		values = ParseCoalesce(out)
	case tunable.FormatFeatures:
		values = ParseFeatures(out)
	case tunable.FormatRing:
		values, maximums = ParseRing(out)
	default:
		v := strings.TrimSpace(out)
		if v == "" {
			return Absent(terrors.New(terrors.ErrCodeUnsupported, "empty command output"))
		}
		return Found(v)
	}

	v, ok := values[spec.Key]
	if !ok {
		return Absent(terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"key not reported", map[string]any{"key": spec.Key, "command": strings.Join(args, " ")}))
	}
	r := Found(v)
	if maximums != nil {
		r.Max = maximums[spec.Key]
	}
	return r
}

func (p *Probe) readSysctl(spec tunable.Spec) Reading {
	v, err := file.NewParser().GetValue(spec.SysctlPath(p.procSysRoot))
	if err != nil {
		return Absent(terrors.Wrap(terrors.ErrCodeUnsupported, "sysctl unavailable", err))
	}
	return Found(v)
}

func (p *Probe) readSysfs(spec tunable.Spec) Reading {
	matches, err := filepath.Glob(filepath.Join(p.sysCPURoot, spec.Path))
	if err != nil || len(matches) == 0 {
		return Absent(terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"no sysfs entries", map[string]any{"path": spec.Path}))
	}

	parser := file.NewParser()
	value := ""
	for i, m := range matches {
		v, err := parser.GetValue(m)
		if err != nil {
			return Absent(terrors.Wrap(terrors.ErrCodeUnsupported, "sysfs unreadable", err))
		}
		if i == 0 {
			value = v
			continue
		}
		if v != value {
			return Found(ValueMixed)
		}
	}
	return Found(value)
}

func (p *Probe) readCmdline(spec tunable.Spec) Reading {
	params, err := file.NewParser(
		file.WithDelimiter(" "),
		file.WithVDefault(CmdlinePresent),
	).GetMap(p.cmdlinePath)
	if err != nil {
		return Absent(terrors.Wrap(terrors.ErrCodeUnsupported, "kernel command line unavailable", err))
	}
	v, ok := params[spec.Key]
	if !ok {
		return Absent(terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"boot parameter not set", map[string]any{"key": spec.Key}))
	}
	return Found(v)
}

func (p *Probe) readService(ctx context.Context, spec tunable.Spec) Reading {
	v, err := p.manager.UnitProperty(ctx, spec.UnitName(p.unit), spec.Property)
	if err != nil {
		return Absent(err)
	}
	return Found(v)
}
