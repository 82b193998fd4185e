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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/host-tuner/pkg/bootunit"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/sysctlconf"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// fakeHost simulates ethtool state for one interface.
type fakeHost struct {
	mu       sync.Mutex
	iface    string
	coalesce map[string]string
	features map[string]string
	ringCur  map[string]string
	ringMax  map[string]string
	calls    []string
}

var featureNames = map[string]string{
	"gro": "generic-receive-offload",
	"lro": "large-receive-offload",
	"tso": "tcp-segmentation-offload",
	"gso": "generic-segmentation-offload",
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		iface: "eth0",
		coalesce: map[string]string{
			"adaptive-rx": "on", "adaptive-tx": "on",
			"rx-usecs": "50", "tx-usecs": "50", "rx-frames": "0",
		},
		features: map[string]string{
			"generic-receive-offload": "on", "large-receive-offload": "off",
			"tcp-segmentation-offload": "on", "generic-segmentation-offload": "on",
		},
		ringCur: map[string]string{"RX": "256", "TX": "256"},
		ringMax: map[string]string{"RX": "4096", "TX": "4096"},
	}
}

func (h *fakeHost) LookPath(name string) (string, error) {
	switch name {
	case "ethtool", "modprobe":
		return "/usr/sbin/" + name, nil
	}
	return "", terrors.New(terrors.ErrCodeUnsupported, "command not found")
}

func kvLines(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, m[k])
	}
	return b.String()
}

func (h *fakeHost) Run(_ context.Context, name string, args ...string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))

	if name == "modprobe" {
		return "", nil
	}
	if name != "ethtool" || len(args) < 2 || args[1] != h.iface {
		return "", terrors.New(terrors.ErrCodeUnsupported, "command not found")
	}

	switch args[0] {
	case "-c":
		out := fmt.Sprintf("Coalesce parameters for %s:\nAdaptive RX: %s  TX: %s\n",
			h.iface, h.coalesce["adaptive-rx"], h.coalesce["adaptive-tx"])
		rest := make(map[string]string)
		for k, v := range h.coalesce {
			if !strings.HasPrefix(k, "adaptive-") {
				rest[k] = v
			}
		}
		return out + kvLines(rest), nil
	case "-C":
		h.coalesce[args[2]] = args[3]
	case "-k":
		return "Features for " + h.iface + ":\n" + kvLines(h.features), nil
	case "-K":
		h.features[featureNames[args[2]]] = args[3]
	case "-g":
		return "Ring parameters for " + h.iface + ":\nPre-set maximums:\n" + kvLines(h.ringMax) +
			"Current hardware settings:\n" + kvLines(h.ringCur), nil
	case "-G":
		h.ringCur[strings.ToUpper(args[2])] = args[3]
	default:
		return "", terrors.New(terrors.ErrCodeUnsupported, "operation not supported")
	}
	return "", nil
}

type env struct {
	host    *fakeHost
	mgr     *systemd.FakeManager
	procSys string
	sysCPU  string
	sysctl  string
	unitDir string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		host:    newFakeHost(),
		mgr:     systemd.NewFakeManager(),
		procSys: filepath.Join(root, "proc", "sys"),
		sysCPU:  filepath.Join(root, "sys", "cpu"),
		sysctl:  filepath.Join(root, "etc", "sysctl.conf"),
		unitDir: filepath.Join(root, "etc", "systemd", "system"),
	}
	e.mgr.Properties["irqbalance.service"] = map[string]string{"ActiveState": "active"}

	for _, s := range tunable.Catalog() {
		if s.Source != tunable.SourceSysctl || s.Name == "tcp_low_latency" {
			continue
		}
		writeFile(t, s.SysctlPath(e.procSys), "0\n")
	}
	writeFile(t, filepath.Join(e.procSys, "net/ipv4/tcp_congestion_control"), "cubic\n")
	writeFile(t, filepath.Join(e.procSys, "kernel/osrelease"), "6.8.0-45-generic\n")
	for _, cpu := range []string{"cpu0", "cpu1"} {
		writeFile(t, filepath.Join(e.sysCPU, cpu, "cpufreq/scaling_governor"), "powersave\n")
		writeFile(t, filepath.Join(e.sysCPU, cpu, "cpuidle/state1/disable"), "0\n")
		writeFile(t, filepath.Join(e.sysCPU, cpu, "cpuidle/state2/disable"), "0\n")
	}
	writeFile(t, e.sysctl, "vm.swappiness = 10\n")
	return e
}

func (e *env) tuner(mode Mode, opts ...Option) *Tuner {
	reader := probe.New("eth0",
		probe.WithRunner(e.host),
		probe.WithManager(e.mgr),
		probe.WithProcSysRoot(e.procSys),
		probe.WithSysCPURoot(e.sysCPU),
		probe.WithCmdlinePath(filepath.Join(e.procSys, "missing-cmdline")),
	)
	base := []Option{
		WithInterface("eth0"),
		WithProfile(tunable.ProfileHFT),
		WithMode(mode),
		WithBinary("/usr/local/bin/host-tuner"),
		WithProcSysRoot(e.procSys),
		WithSysCPURoot(e.sysCPU),
		WithSysctlWriter(sysctlconf.NewWriter(e.sysctl)),
		WithInstaller(bootunit.NewInstaller(e.unitDir, "host-tuner.service", e.mgr)),
		WithGeteuid(func() int { return 0 }),
	}
	return New(reader, e.host, e.mgr, append(base, opts...)...)
}

func byName(items []ItemOutcome) map[string]ItemOutcome {
	m := make(map[string]ItemOutcome, len(items))
	for _, it := range items {
		m[it.Name] = it
	}
	return m
}

func TestApply_SetsEverything(t *testing.T) {
	e := newEnv(t)
	res, err := e.tuner(ModeApply).Apply(context.TODO())
	require.NoError(t, err)

	items := byName(res.Items)
	assert.Equal(t, StatusChanged, items["adaptive_rx"].Status)
	assert.Equal(t, StatusUnchanged, items["lro"].Status)
	assert.Equal(t, StatusChanged, items["ring_rx"].Status)
	assert.Equal(t, "4096", items["ring_rx"].After)
	assert.Equal(t, StatusChanged, items["congestion_control"].Status)
	assert.Equal(t, StatusChanged, items["busy_poll"].Status)
	assert.Equal(t, StatusUnsupported, items["tcp_low_latency"].Status)
	assert.Equal(t, StatusChanged, items["cpu_governor"].Status)
	assert.Equal(t, StatusChanged, items["cstates_disabled"].Status)
	assert.Equal(t, StatusChanged, items["irqbalance"].Status)
	assert.NotContains(t, items, "kernel_version")
	assert.NotContains(t, items, "boot_unit")

	assert.True(t, e.host.contains("modprobe tcp_bbr"))
	assert.True(t, e.host.contains("ethtool -K eth0 gro off"))
	assert.True(t, e.host.contains("ethtool -G eth0 rx 4096"))
	assert.Zero(t, res.Summary.Failed)

	b, err := os.ReadFile(filepath.Join(e.procSys, "net/ipv4/tcp_congestion_control"))
	require.NoError(t, err)
	assert.Equal(t, "bbr\n", string(b))

	assert.True(t, res.Persisted)
	conf, err := os.ReadFile(e.sysctl)
	require.NoError(t, err)
	assert.Contains(t, string(conf), "net.ipv4.tcp_congestion_control = bbr")
	assert.Contains(t, string(conf), "net.core.busy_poll = 50")
	assert.NotContains(t, string(conf), "tcp_low_latency")
	assert.True(t, strings.HasPrefix(string(conf), "vm.swappiness = 10\n"))

	require.NotNil(t, res.Unit)
	assert.True(t, res.Unit.Written)
	assert.True(t, res.Unit.Enabled)
	assert.Empty(t, res.UnitError)
}

func TestApply_BootUnitKeepsOverrides(t *testing.T) {
	e := newEnv(t)
	res, err := e.tuner(ModeApply, WithBootArgs("eth0", "/etc/host-tuner/edge.yaml")).Apply(context.TODO())
	require.NoError(t, err)
	require.NotNil(t, res.Unit)

	b, err := os.ReadFile(res.Unit.Path)
	require.NoError(t, err)
	assert.Contains(t, string(b),
		"ExecStart=/usr/local/bin/host-tuner apply --boot --profile hft --interface eth0 --config /etc/host-tuner/edge.yaml\n")
}

func TestApply_TwiceIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.TODO()

	_, err := e.tuner(ModeApply).Apply(ctx)
	require.NoError(t, err)
	res, err := e.tuner(ModeApply).Apply(ctx)
	require.NoError(t, err)

	assert.Zero(t, res.Summary.Changed)
	assert.Zero(t, res.Summary.Failed)
	assert.Equal(t, 1, res.Summary.Unsupported)
	assert.False(t, res.Persisted)
	require.NotNil(t, res.Unit)
	assert.False(t, res.Unit.Written)

	conf, err := os.ReadFile(e.sysctl)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(conf), sysctlconf.BeginMarker))
	assert.Equal(t, 1, strings.Count(string(conf), "net.ipv4.tcp_congestion_control"))

	units, err := os.ReadDir(e.unitDir)
	require.NoError(t, err)
	assert.Len(t, units, 1)

	backups, err := filepath.Glob(e.sysctl + ".host-tuner.*.bak")
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestApply_DryRunWritesNothing(t *testing.T) {
	e := newEnv(t)
	tu := e.tuner(ModeDryRun, WithGeteuid(func() int { return 1000 }))

	res, err := tu.Apply(context.TODO())
	require.NoError(t, err)

	assert.Positive(t, res.Summary.Planned)
	assert.Zero(t, res.Summary.Changed)
	for _, c := range e.host.calls {
		assert.False(t, strings.HasPrefix(c, "ethtool -C") || strings.HasPrefix(c, "ethtool -K"), c)
	}

	b, _ := os.ReadFile(filepath.Join(e.procSys, "net/ipv4/tcp_congestion_control"))
	assert.Equal(t, "cubic\n", string(b))
	conf, _ := os.ReadFile(e.sysctl)
	assert.Equal(t, "vm.swappiness = 10\n", string(conf))
	_, err = os.Stat(e.unitDir)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, res.Unit)
}

func TestApply_BootModeOnlyMutates(t *testing.T) {
	e := newEnv(t)
	res, err := e.tuner(ModeBoot).Apply(context.TODO())
	require.NoError(t, err)

	assert.Positive(t, res.Summary.Changed)
	assert.False(t, res.Persisted)
	assert.Nil(t, res.Unit)
	conf, _ := os.ReadFile(e.sysctl)
	assert.Equal(t, "vm.swappiness = 10\n", string(conf))
}

func TestApply_RequiresRoot(t *testing.T) {
	e := newEnv(t)
	_, err := e.tuner(ModeApply, WithGeteuid(func() int { return 1000 })).Apply(context.TODO())
	require.Error(t, err)
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeUnauthorized))
}

func TestMutate_ContinuesPastFailures(t *testing.T) {
	e := newEnv(t)
	e.host.iface = "other"
	e.mgr.Unavailable = true

	items, err := e.tuner(ModeBoot).Mutate(context.TODO())
	require.NoError(t, err)

	got := byName(items)
	assert.Equal(t, StatusUnsupported, got["adaptive_rx"].Status)
	assert.Equal(t, StatusUnsupported, got["ring_rx"].Status)
	assert.Equal(t, StatusUnsupported, got["irqbalance"].Status)
	assert.Equal(t, StatusChanged, got["congestion_control"].Status)
	assert.Equal(t, StatusChanged, got["cpu_governor"].Status)
}

func TestApply_UnitFailureIsReported(t *testing.T) {
	e := newEnv(t)
	e.mgr.Err = terrors.New(terrors.ErrCodeInternal, "dbus timeout")
	e.mgr.Properties["irqbalance.service"]["ActiveState"] = "inactive"

	res, err := e.tuner(ModeApply).Apply(context.TODO())
	require.NoError(t, err)
	assert.Contains(t, res.UnitError, "dbus timeout")
	assert.True(t, res.Persisted)
}

func (h *fakeHost) contains(line string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.calls {
		if c == line {
			return true
		}
	}
	return false
}

func TestSummarize(t *testing.T) {
	s := Summarize([]ItemOutcome{
		{Status: StatusChanged}, {Status: StatusChanged}, {Status: StatusUnchanged},
		{Status: StatusFailed}, {Status: StatusUnsupported}, {Status: StatusPlanned},
	})
	assert.Equal(t, Summary{Changed: 2, Unchanged: 1, Failed: 1, Unsupported: 1, Planned: 1}, s)
}
