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

package systemd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

var _ Manager = (*DBusManager)(nil)
var _ Manager = (*FakeManager)(nil)

func TestDBusManager_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	m := NewManager()
	defer m.Close()

	state, err := m.UnitProperty(context.TODO(), "irqbalance.service", "ActiveState")
	if err != nil {
		if terrors.IsCode(err, terrors.ErrCodeUnsupported) {
			t.Skip("systemd not available on this system")
		}
		t.Fatalf("UnitProperty() failed: %v", err)
	}
	t.Logf("irqbalance ActiveState=%s", state)
}

func TestDBusManager_ConnectErrorIsSticky(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	m := NewManager()
	defer m.Close()

	_, err1 := m.UnitProperty(ctx, "irqbalance.service", "ActiveState")
	if err1 == nil {
		// A connection raced the canceled context on this host.
		t.Skip("connection succeeded despite canceled context")
	}
	_, err2 := m.UnitProperty(context.TODO(), "irqbalance.service", "ActiveState")
	require.Error(t, err2)
	assert.True(t, terrors.IsCode(err2, terrors.ErrCodeUnsupported))
}

func TestFakeManager(t *testing.T) {
	ctx := context.TODO()
	f := NewFakeManager()

	state, err := f.UnitProperty(ctx, "irqbalance.service", "ActiveState")
	require.NoError(t, err)
	assert.Equal(t, "inactive", state)

	require.NoError(t, f.Start(ctx, "irqbalance.service"))
	state, _ = f.UnitProperty(ctx, "irqbalance.service", "ActiveState")
	assert.Equal(t, "active", state)

	require.NoError(t, f.Enable(ctx, "host-tuner.service"))
	require.NoError(t, f.Enable(ctx, "host-tuner.service"))
	assert.Equal(t, 2, f.Count("enable host-tuner.service"))

	f.Unavailable = true
	_, err = f.UnitProperty(ctx, "irqbalance.service", "ActiveState")
	assert.True(t, terrors.IsCode(err, terrors.ErrCodeUnsupported))
}
