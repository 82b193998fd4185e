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

package bootunit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

func TestRender(t *testing.T) {
	b, err := Render(Options{Binary: "/usr/local/bin/host-tuner", Profile: tunable.ProfileHFT})
	require.NoError(t, err)
	s := string(b)

	assert.True(t, strings.HasPrefix(s, "[Unit]\n"))
	for _, want := range []string{
		"After=network-online.target\n",
		"[Service]\n",
		"Type=oneshot\n",
		"RemainAfterExit=yes\n",
		"ExecStart=/usr/local/bin/host-tuner apply --boot --profile hft\n",
		"[Install]\n",
		"WantedBy=multi-user.target\n",
	} {
		assert.Contains(t, s, want)
	}
}

func TestRender_ExecStart(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "detected interface",
			opts: Options{Binary: "/bin/host-tuner", Profile: tunable.ProfileStandard},
			want: "ExecStart=/bin/host-tuner apply --boot --profile standard\n",
		},
		{
			name: "interface override",
			opts: Options{Binary: "/bin/host-tuner", Profile: tunable.ProfileHFT, Interface: "eth1"},
			want: "ExecStart=/bin/host-tuner apply --boot --profile hft --interface eth1\n",
		},
		{
			name: "interface and config",
			opts: Options{Binary: "/bin/host-tuner", Interface: "eth1", Config: "/etc/host-tuner/edge.yaml"},
			want: "ExecStart=/bin/host-tuner apply --boot --profile standard --interface eth1 --config /etc/host-tuner/edge.yaml\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Render(tt.opts)
			require.NoError(t, err)
			assert.Contains(t, string(b), tt.want)
		})
	}
}

func TestInstall_InterfaceChangeRewrites(t *testing.T) {
	ctx := context.TODO()
	dir := t.TempDir()
	inst := NewInstaller(dir, "", systemd.NewFakeManager())

	_, err := inst.Install(ctx, Options{Binary: "/bin/host-tuner"})
	require.NoError(t, err)
	res, err := inst.Install(ctx, Options{Binary: "/bin/host-tuner", Interface: "eth1"})
	require.NoError(t, err)
	assert.True(t, res.Written)

	b, err := os.ReadFile(filepath.Join(dir, "host-tuner.service"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "--interface eth1")
}

func TestRender_RequiresBinary(t *testing.T) {
	_, err := Render(Options{})
	require.Error(t, err)
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeInvalidRequest))
}

func TestInstall_Idempotent(t *testing.T) {
	ctx := context.TODO()
	dir := t.TempDir()
	mgr := systemd.NewFakeManager()
	inst := NewInstaller(dir, "host-tuner.service", mgr)
	opts := Options{Binary: "/usr/local/bin/host-tuner", Profile: tunable.ProfileStandard}

	res, err := inst.Install(ctx, opts)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.True(t, res.Enabled)

	res, err = inst.Install(ctx, opts)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.True(t, res.Enabled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, mgr.Count("reload"))

	state, _ := mgr.UnitProperty(ctx, "host-tuner.service", "UnitFileState")
	assert.Equal(t, "enabled", state)
}

func TestInstall_ProfileChangeRewrites(t *testing.T) {
	ctx := context.TODO()
	dir := t.TempDir()
	mgr := systemd.NewFakeManager()
	inst := NewInstaller(dir, "", mgr)

	_, err := inst.Install(ctx, Options{Binary: "/bin/host-tuner", Profile: tunable.ProfileStandard})
	require.NoError(t, err)
	res, err := inst.Install(ctx, Options{Binary: "/bin/host-tuner", Profile: tunable.ProfileHFT})
	require.NoError(t, err)
	assert.True(t, res.Written)

	b, err := os.ReadFile(filepath.Join(dir, "host-tuner.service"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "--profile hft")
	assert.Equal(t, 2, mgr.Count("reload"))
}

func TestInstall_SystemdUnavailable(t *testing.T) {
	mgr := systemd.NewFakeManager()
	mgr.Unavailable = true
	inst := NewInstaller(t.TempDir(), "host-tuner.service", mgr)

	res, err := inst.Install(context.TODO(), Options{Binary: "/bin/host-tuner"})
	require.Error(t, err)
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeUnsupported))
	require.NotNil(t, res)
	assert.True(t, res.Written)
	assert.False(t, res.Enabled)
}
