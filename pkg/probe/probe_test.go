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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/host-tuner/pkg/command"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

const coalesceOut = `Coalesce parameters for eth0:
Adaptive RX: on  TX: off
stats-block-usecs: 0
sample-interval: 0
rx-usecs: 3
rx-frames: 0
rx-usecs-irq: n/a
tx-usecs: 0
`

const featuresOut = `Features for eth0:
rx-checksumming: on
tcp-segmentation-offload: on
	tx-tcp-segmentation: on
generic-segmentation-offload: off [fixed]
generic-receive-offload: on
large-receive-offload: off [fixed]
`

const ringOut = `Ring parameters for eth0:
Pre-set maximums:
RX:		4096
RX Mini:	n/a
RX Jumbo:	n/a
TX:		4096
Current hardware settings:
RX:		256
RX Mini:	n/a
RX Jumbo:	n/a
TX:		4096
`

func TestParseCoalesce(t *testing.T) {
	m := ParseCoalesce(coalesceOut)
	assert.Equal(t, "on", m["adaptive-rx"])
	assert.Equal(t, "off", m["adaptive-tx"])
	assert.Equal(t, "3", m["rx-usecs"])
	assert.Equal(t, "0", m["tx-usecs"])
	assert.NotContains(t, m, "rx-usecs-irq")
	assert.NotContains(t, m, "Coalesce parameters for eth0")
}

func TestParseCoalesce_NotAvailable(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		want   map[string]string
		absent []string
	}{
		{
			name:   "adaptive unsupported",
			out:    "Adaptive RX: n/a  TX: n/a\nrx-usecs: n/a\ntx-usecs: 8\n",
			want:   map[string]string{"tx-usecs": "8"},
			absent: []string{"adaptive-rx", "adaptive-tx", "rx-usecs"},
		},
		{
			name:   "only tx adaptive unsupported",
			out:    "Adaptive RX: off  TX: n/a\nrx-usecs: 0\n",
			want:   map[string]string{"adaptive-rx": "off", "rx-usecs": "0"},
			absent: []string{"adaptive-tx"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseCoalesce(tt.out)
			for k, v := range tt.want {
				assert.Equal(t, v, m[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, m, k)
			}
		})
	}
}

func TestParseFeatures(t *testing.T) {
	m := ParseFeatures(featuresOut)
	assert.Equal(t, "on", m["generic-receive-offload"])
	assert.Equal(t, "off", m["large-receive-offload"])
	assert.Equal(t, "off", m["generic-segmentation-offload"])
	assert.Equal(t, "on", m["tx-tcp-segmentation"])
}

func TestParseRing(t *testing.T) {
	cur, maxes := ParseRing(ringOut)
	assert.Equal(t, "256", cur["RX"])
	assert.Equal(t, "4096", cur["TX"])
	assert.Equal(t, "4096", maxes["RX"])
	assert.NotContains(t, maxes, "RX Mini")
}

type fixture struct {
	procSys string
	sysCPU  string
	cmdline string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		procSys: filepath.Join(root, "proc", "sys"),
		sysCPU:  filepath.Join(root, "sys", "cpu"),
		cmdline: filepath.Join(root, "proc", "cmdline"),
	}
	writeFile(t, filepath.Join(f.procSys, "net/ipv4/tcp_congestion_control"), "cubic\n")
	writeFile(t, filepath.Join(f.procSys, "net/ipv4/tcp_rmem"), "4096\t87380\t16777216\n")
	writeFile(t, filepath.Join(f.procSys, "kernel/osrelease"), "6.8.0-45-generic\n")
	writeFile(t, filepath.Join(f.sysCPU, "cpu0/cpufreq/scaling_governor"), "performance\n")
	writeFile(t, filepath.Join(f.sysCPU, "cpu1/cpufreq/scaling_governor"), "performance\n")
	writeFile(t, filepath.Join(f.sysCPU, "cpu0/cpuidle/state1/disable"), "1\n")
	writeFile(t, filepath.Join(f.sysCPU, "cpu0/cpuidle/state2/disable"), "0\n")
	writeFile(t, f.cmdline, "BOOT_IMAGE=/vmlinuz ro quiet intel_idle.max_cstate=0\n")
	return f
}

func newTestProbe(t *testing.T, runner command.Runner, mgr systemd.Manager) *Probe {
	f := newFixture(t)
	return New("eth0",
		WithRunner(runner),
		WithManager(mgr),
		WithProcSysRoot(f.procSys),
		WithSysCPURoot(f.sysCPU),
		WithCmdlinePath(f.cmdline),
	)
}

func TestProbe_Read(t *testing.T) {
	runner := command.NewFakeRunner(map[string]command.Response{
		"ethtool -c eth0": {Out: coalesceOut},
		"ethtool -k eth0": {Out: featuresOut},
		"ethtool -g eth0": {Out: ringOut},
	})
	mgr := systemd.NewFakeManager()
	mgr.Properties["irqbalance.service"] = map[string]string{"ActiveState": "active"}
	p := newTestProbe(t, runner, mgr)

	tests := []struct {
		name    string
		want    string
		max     string
		present bool
	}{
		{name: "adaptive_rx", want: "on", present: true},
		{name: "rx_usecs", want: "3", present: true},
		{name: "rx_frames", want: "0", present: true},
		{name: "gro", want: "on", present: true},
		{name: "lro", want: "off", present: true},
		{name: "ring_rx", want: "256", max: "4096", present: true},
		{name: "ring_tx", want: "4096", max: "4096", present: true},
		{name: "congestion_control", want: "cubic", present: true},
		{name: "tcp_rmem", want: "4096 87380 16777216", present: true},
		{name: "busy_poll", present: false},
		{name: "kernel_version", want: "6.8.0-45-generic", present: true},
		{name: "cpu_governor", want: "performance", present: true},
		{name: "cstates_disabled", want: ValueMixed, present: true},
		{name: "intel_idle_max_cstate", want: "0", present: true},
		{name: "processor_max_cstate", present: false},
		{name: "irqbalance", want: "active", present: true},
		{name: "boot_unit", want: "disabled", present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := tunable.Lookup(tt.name)
			require.True(t, ok)

			r := p.Read(context.TODO(), spec)
			assert.Equal(t, tt.present, r.Present, "err: %v", r.Err)
			if tt.present {
				assert.Equal(t, tt.want, r.Value)
				assert.Equal(t, tt.max, r.Max)
			} else {
				assert.Error(t, r.Err)
			}
		})
	}
}

func TestProbe_AbsentWhenToolsMissing(t *testing.T) {
	mgr := systemd.NewFakeManager()
	mgr.Unavailable = true
	p := newTestProbe(t, command.NewFakeRunner(nil), mgr)

	for _, name := range []string{"adaptive_rx", "gro", "ring_rx", "irqbalance"} {
		spec, _ := tunable.Lookup(name)
		r := p.Read(context.TODO(), spec)
		assert.False(t, r.Present, name)
		assert.True(t, terrors.IsCode(r.Err, terrors.ErrCodeUnsupported), name)
	}
}

func TestProbe_NoInterface(t *testing.T) {
	runner := command.NewFakeRunner(map[string]command.Response{
		"ethtool -c": {Out: coalesceOut},
	})
	p := New("", WithRunner(runner), WithManager(systemd.NewFakeManager()))

	spec, _ := tunable.Lookup("rx_usecs")
	r := p.Read(context.TODO(), spec)
	assert.False(t, r.Present)
	assert.Empty(t, runner.Calls)
}

func TestProbe_UnknownSource(t *testing.T) {
	p := New("eth0", WithRunner(command.NewFakeRunner(nil)), WithManager(systemd.NewFakeManager()))
	r := p.Read(context.TODO(), tunable.Spec{Name: "x", Source: "bogus"})
	assert.False(t, r.Present)
}

type panicRunner struct{}

func (panicRunner) LookPath(string) (string, error) { return "", nil }
func (panicRunner) Run(context.Context, string, ...string) (string, error) {
	panic("boom")
}

func TestProbe_RecoversPanic(t *testing.T) {
	p := New("eth0", WithRunner(panicRunner{}), WithManager(systemd.NewFakeManager()))
	spec, _ := tunable.Lookup("gro")
	r := p.Read(context.TODO(), spec)
	assert.False(t, r.Present)
	assert.True(t, terrors.IsCode(r.Err, terrors.ErrCodeInternal))
}
