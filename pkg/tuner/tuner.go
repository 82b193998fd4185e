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
	"context"
	"log/slog"
	"os"

	"github.com/mchmarny/host-tuner/pkg/bootunit"
	"github.com/mchmarny/host-tuner/pkg/command"
	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/header"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/sysctlconf"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
	"github.com/mchmarny/host-tuner/pkg/validator"
)

// Tuner moves host settings to the values of a profile.
type Tuner struct {
	reader    probe.Reader
	runner    command.Runner
	manager   systemd.Manager
	sysctl    *sysctlconf.Writer
	installer *bootunit.Installer

	iface       string
	profile     tunable.Profile
	mode        Mode
	binary      string
	unitIface   string
	unitConfig  string
	unitName    string
	version     string
	procSysRoot string
	sysCPURoot  string
	specs       []tunable.Spec
	geteuid     func() int
}

// Option configures a Tuner.
type Option func(*Tuner)

// WithInterface sets the NIC that ethtool settings target.
func WithInterface(iface string) Option {
	return func(t *Tuner) {
		t.iface = iface
	}
}

// WithProfile selects the tunables to apply.
func WithProfile(p tunable.Profile) Option {
	return func(t *Tuner) {
		t.profile = p
	}
}

// WithMode selects apply, boot or dry-run behavior.
func WithMode(m Mode) Option {
	return func(t *Tuner) {
		t.mode = m
	}
}

// WithBinary sets the executable the boot unit runs.
func WithBinary(path string) Option {
	return func(t *Tuner) {
		t.binary = path
	}
}

// WithBootArgs pins the interface and config file the boot unit passes to
// apply. Empty values are omitted so the boot run re-detects or re-searches.
func WithBootArgs(iface, configFile string) Option {
	return func(t *Tuner) {
		t.unitIface = iface
		t.unitConfig = configFile
	}
}

// WithUnitName sets the boot unit name.
func WithUnitName(name string) Option {
	return func(t *Tuner) {
		t.unitName = name
	}
}

// WithVersion sets the tool version recorded in the result header.
func WithVersion(v string) Option {
	return func(t *Tuner) {
		t.version = v
	}
}

// WithSysctlWriter sets where kernel parameters are persisted.
func WithSysctlWriter(w *sysctlconf.Writer) Option {
	return func(t *Tuner) {
		t.sysctl = w
	}
}

// WithInstaller sets the boot unit installer.
func WithInstaller(i *bootunit.Installer) Option {
	return func(t *Tuner) {
		t.installer = i
	}
}

// WithProcSysRoot overrides /proc/sys for sysctl writes.
func WithProcSysRoot(root string) Option {
	return func(t *Tuner) {
		t.procSysRoot = root
	}
}

// WithSysCPURoot overrides /sys/devices/system/cpu for CPU writes.
func WithSysCPURoot(root string) Option {
	return func(t *Tuner) {
		t.sysCPURoot = root
	}
}

// WithSpecs replaces the profile table.
func WithSpecs(specs []tunable.Spec) Option {
	return func(t *Tuner) {
		t.specs = specs
	}
}

// WithGeteuid replaces the effective user id lookup.
func WithGeteuid(f func() int) Option {
	return func(t *Tuner) {
		t.geteuid = f
	}
}

// New returns a Tuner reading through reader and mutating through runner
// and manager.
func New(reader probe.Reader, runner command.Runner, manager systemd.Manager, opts ...Option) *Tuner {
	t := &Tuner{
		reader:      reader,
		runner:      runner,
		manager:     manager,
		profile:     tunable.ProfileStandard,
		mode:        ModeApply,
		unitName:    defaults.UnitName,
		procSysRoot: defaults.ProcSysRoot,
		sysCPURoot:  defaults.SysCPURoot,
		geteuid:     os.Geteuid,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.specs == nil {
		t.specs = tunable.ForProfile(t.profile)
	}
	if t.sysctl == nil {
		t.sysctl = sysctlconf.NewWriter(defaults.SysctlFile)
	}
	if t.installer == nil {
		t.installer = bootunit.NewInstaller(defaults.UnitDir, t.unitName, manager)
	}
	return t
}

// Mutate moves every mutable tunable of the profile to its target, one at
// a time. Failures are recorded and the sequence continues. In dry-run
// mode nothing is written and off-target items are reported as planned.
func (t *Tuner) Mutate(ctx context.Context) ([]ItemOutcome, error) {
	items := make([]ItemOutcome, 0, len(t.specs))
	for _, spec := range t.specs {
		if !spec.Mutable {
			continue
		}
		if err := ctx.Err(); err != nil {
			return items, err
		}
		item := t.mutateOne(ctx, spec)
		logOutcome(item)
		items = append(items, item)
	}
	return items, nil
}

func (t *Tuner) mutateOne(ctx context.Context, spec tunable.Spec) ItemOutcome {
	item := ItemOutcome{Name: spec.Name, Category: spec.Category, Target: spec.Expect}

	before := t.reader.Read(ctx, spec)
	if before.Present {
		item.Before = before.Value
	}
	if validator.Classify(spec, before).Status == validator.StatusPass {
		item.Status = StatusUnchanged
		item.After = item.Before
		return item
	}

	value, err := target(spec, before)
	if err != nil {
		return failure(item, err)
	}
	item.Target = value

	if t.mode == ModeDryRun {
		item.Status = StatusPlanned
		return item
	}

	if err := t.set(ctx, spec, value); err != nil {
		return failure(item, err)
	}

	after := t.reader.Read(ctx, spec)
	if after.Present {
		item.After = after.Value
	}
	if validator.Classify(spec, after).Status != validator.StatusPass {
		item.Status = StatusFailed
		item.Message = "value did not take effect"
		return item
	}
	item.Status = StatusChanged
	return item
}

func failure(item ItemOutcome, err error) ItemOutcome {
	item.Status = StatusFailed
	if terrors.IsCode(err, terrors.ErrCodeUnsupported) {
		item.Status = StatusUnsupported
	}
	item.Message = err.Error()
	return item
}

func logOutcome(item ItemOutcome) {
	switch item.Status {
	case StatusFailed:
		slog.Warn("tunable not applied", "name", item.Name, "target", item.Target, "error", item.Message)
	case StatusUnsupported:
		slog.Info("tunable unsupported", "name", item.Name, "reason", item.Message)
	default:
		slog.Debug("tunable processed", "name", item.Name, "status", item.Status,
			"before", item.Before, "after", item.After)
	}
}

// Apply runs Mutate and, in apply mode, persists kernel parameters and
// installs the boot unit. Root is required unless in dry-run mode. Item,
// persistence and unit failures are reported in the result, not returned.
func (t *Tuner) Apply(ctx context.Context) (*ApplyResult, error) {
	if t.mode != ModeDryRun && t.geteuid() != 0 {
		return nil, terrors.New(terrors.ErrCodeUnauthorized, "apply must run as root (use --dry-run to preview)")
	}

	res := &ApplyResult{
		Interface: t.iface,
		Profile:   t.profile,
		Mode:      t.mode,
	}
	res.Init(header.KindApplyResult, t.version)
	res.Set("profile", t.profile.String())
	res.Set("mode", string(t.mode))

	items, err := t.Mutate(ctx)
	res.Items = items
	res.Summary = Summarize(items)
	if err != nil {
		return res, err
	}

	if t.mode != ModeApply {
		return res, nil
	}

	t.persist(res)
	t.install(ctx, res)

	slog.Info("apply completed",
		"changed", res.Summary.Changed,
		"unchanged", res.Summary.Unchanged,
		"unsupported", res.Summary.Unsupported,
		"failed", res.Summary.Failed,
		"persisted", res.Persisted)

	return res, nil
}

// persist writes the sysctl tunables the kernel accepted, so unknown keys
// never reach the boot-time sysctl load.
func (t *Tuner) persist(res *ApplyResult) {
	status := make(map[string]Status, len(res.Items))
	for _, it := range res.Items {
		status[it.Name] = it.Status
	}

	entries := make([]sysctlconf.Entry, 0)
	for _, spec := range t.specs {
		if !spec.Persist {
			continue
		}
		if s := status[spec.Name]; s != StatusChanged && s != StatusUnchanged {
			continue
		}
		entries = append(entries, sysctlconf.Entry{Key: spec.Key, Value: spec.Expect})
	}

	res.PersistPath = t.sysctl.Path()
	changed, err := t.sysctl.Write(entries)
	if err != nil {
		slog.Error("failed to persist kernel parameters", "path", res.PersistPath, "error", err)
		res.PersistError = err.Error()
		return
	}
	res.Persisted = changed
}

func (t *Tuner) install(ctx context.Context, res *ApplyResult) {
	binary := t.binary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			res.UnitError = err.Error()
			slog.Error("failed to resolve executable for boot unit", "error", err)
			return
		}
		binary = exe
	}

	u, err := t.installer.Install(ctx, bootunit.Options{
		Binary:    binary,
		Profile:   t.profile,
		Interface: t.unitIface,
		Config:    t.unitConfig,
	})
	res.Unit = u
	if err != nil {
		res.UnitError = err.Error()
		slog.Error("failed to install boot unit", "error", err)
	}
}
