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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

const jobModeReplace = "replace"

// Manager is the slice of the service manager host-tuner uses.
type Manager interface {
	UnitProperty(ctx context.Context, unit, property string) (string, error)
	Start(ctx context.Context, unit string) error
	Stop(ctx context.Context, unit string) error
	Enable(ctx context.Context, unit string) error
	Disable(ctx context.Context, unit string) error
	Reload(ctx context.Context) error
	Close()
}

// DBusManager talks to systemd over D-Bus. The connection is opened on
// first use; a failed connection is remembered and returned as UNSUPPORTED
// from every call, so hosts without systemd degrade to absent readings.
type DBusManager struct {
	once    sync.Once
	conn    *dbus.Conn
	connErr error
}

// NewManager returns a lazily connected DBusManager.
func NewManager() *DBusManager {
	return &DBusManager{}
}

func (m *DBusManager) connect(ctx context.Context) (*dbus.Conn, error) {
	m.once.Do(func() {
		cctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
		defer cancel()
		m.conn, m.connErr = dbus.NewSystemdConnectionContext(cctx)
		if m.connErr != nil {
			slog.Debug("systemd unavailable", "error", m.connErr)
		}
	})
	if m.connErr != nil {
		return nil, terrors.Wrap(terrors.ErrCodeUnsupported, "failed to connect to systemd", m.connErr)
	}
	return m.conn, nil
}

// UnitProperty returns a unit property such as ActiveState or UnitFileState
// rendered as a string.
func (m *DBusManager) UnitProperty(ctx context.Context, unit, property string) (string, error) {
	conn, err := m.connect(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	props, err := conn.GetUnitPropertiesContext(ctx, unit)
	if err != nil {
		return "", terrors.WrapWithContext(terrors.ErrCodeUnsupported,
			"failed to get unit properties", err, map[string]any{"unit": unit})
	}

	v, ok := props[property]
	if !ok {
		return "", terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"unit property not found", map[string]any{"unit": unit, "property": property})
	}
	return fmt.Sprintf("%v", v), nil
}

// Start starts unit and waits for the job to finish.
func (m *DBusManager) Start(ctx context.Context, unit string) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	ch := make(chan string, 1)
	if _, err := conn.StartUnitContext(ctx, unit, jobModeReplace, ch); err != nil {
		return terrors.WrapWithContext(terrors.ErrCodeInternal, "failed to start unit", err, map[string]any{"unit": unit})
	}
	return waitJob(ctx, unit, "start", ch)
}

// Stop stops unit and waits for the job to finish.
func (m *DBusManager) Stop(ctx context.Context, unit string) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	ch := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, unit, jobModeReplace, ch); err != nil {
		return terrors.WrapWithContext(terrors.ErrCodeInternal, "failed to stop unit", err, map[string]any{"unit": unit})
	}
	return waitJob(ctx, unit, "stop", ch)
}

// Enable enables unit for boot. Enabling an enabled unit is a no-op.
func (m *DBusManager) Enable(ctx context.Context, unit string) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{unit}, false, true); err != nil {
		return terrors.WrapWithContext(terrors.ErrCodeInternal, "failed to enable unit", err, map[string]any{"unit": unit})
	}
	return nil
}

// Disable disables unit for boot.
func (m *DBusManager) Disable(ctx context.Context, unit string) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	if _, err := conn.DisableUnitFilesContext(ctx, []string{unit}, false); err != nil {
		return terrors.WrapWithContext(terrors.ErrCodeInternal, "failed to disable unit", err, map[string]any{"unit": unit})
	}
	return nil
}

// Reload makes systemd re-read unit files.
func (m *DBusManager) Reload(ctx context.Context) error {
	conn, err := m.connect(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	if err := conn.ReloadContext(ctx); err != nil {
		return terrors.Wrap(terrors.ErrCodeInternal, "failed to reload systemd", err)
	}
	return nil
}

// Close releases the D-Bus connection if one was opened.
func (m *DBusManager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}

func waitJob(ctx context.Context, unit, op string, ch <-chan string) error {
	timer := time.NewTimer(defaults.SystemdJobTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res != "done" {
			return terrors.NewWithContext(terrors.ErrCodeInternal,
				fmt.Sprintf("%s job finished with %q", op, res), map[string]any{"unit": unit})
		}
		return nil
	case <-timer.C:
		return terrors.NewWithContext(terrors.ErrCodeTimeout,
			fmt.Sprintf("%s job did not finish", op), map[string]any{"unit": unit})
	case <-ctx.Done():
		return ctx.Err()
	}
}
