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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"

	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/systemd"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Options render a boot unit.
type Options struct {
	Binary  string
	Profile tunable.Profile

	// Interface pins the NIC when apply ran with an explicit interface.
	Interface string

	// Config is the config file apply ran with.
	Config string
}

// Command returns the ExecStart command line.
func (o Options) Command() string {
	args := []string{o.Binary, "apply", "--boot", "--profile", string(o.Profile)}
	if o.Interface != "" {
		args = append(args, "--interface", o.Interface)
	}
	if o.Config != "" {
		args = append(args, "--config", o.Config)
	}
	return strings.Join(args, " ")
}

// Render returns the unit file that re-runs the mutation sequence at boot.
func Render(o Options) ([]byte, error) {
	if o.Binary == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidRequest, "binary path is required")
	}
	if o.Profile == "" {
		o.Profile = tunable.ProfileStandard
	}

	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", "Re-apply host-tuner low-latency settings"),
		unit.NewUnitOption("Unit", "After", "network-online.target"),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),
		unit.NewUnitOption("Service", "Type", "oneshot"),
		unit.NewUnitOption("Service", "RemainAfterExit", "yes"),
		unit.NewUnitOption("Service", "ExecStart", o.Command()),
		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	}

	b, err := io.ReadAll(unit.Serialize(opts))
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInternal, "failed to serialize unit", err)
	}
	return b, nil
}

// Result describes what Install did.
type Result struct {
	Path    string `json:"path" yaml:"path"`
	Written bool   `json:"written" yaml:"written"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Installer writes and enables the boot unit.
type Installer struct {
	dir     string
	name    string
	manager systemd.Manager
}

// NewInstaller returns an Installer placing name under dir.
func NewInstaller(dir, name string, m systemd.Manager) *Installer {
	if dir == "" {
		dir = defaults.UnitDir
	}
	if name == "" {
		name = defaults.UnitName
	}
	return &Installer{dir: dir, name: name, manager: m}
}

// Path returns the unit file location.
func (i *Installer) Path() string {
	return filepath.Join(i.dir, i.name)
}

// Install writes the unit when its content differs, reloads systemd after
// a write, and enables the unit. Running it again changes nothing.
func (i *Installer) Install(ctx context.Context, o Options) (*Result, error) {
	content, err := Render(o)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: i.Path()}

	current, err := os.ReadFile(res.Path)
	if err != nil && !os.IsNotExist(err) {
		return nil, terrors.WrapWithContext(terrors.ErrCodeInternal,
			"failed to read unit file", err, map[string]any{"path": res.Path})
	}

	if !bytes.Equal(current, content) {
		if err := os.MkdirAll(i.dir, 0o755); err != nil {
			return nil, terrors.Wrap(terrors.ErrCodeInternal, "failed to create unit directory", err)
		}
		if err := os.WriteFile(res.Path, content, 0o644); err != nil {
			return nil, terrors.WrapWithContext(terrors.ErrCodeInternal,
				"failed to write unit file", err, map[string]any{"path": res.Path})
		}
		res.Written = true
		slog.Info("boot unit written", "path", res.Path)

		if err := i.manager.Reload(ctx); err != nil {
			return res, fmt.Errorf("failed to reload systemd: %w", err)
		}
	} else {
		slog.Debug("boot unit unchanged", "path", res.Path)
	}

	if err := i.manager.Enable(ctx, i.name); err != nil {
		return res, fmt.Errorf("failed to enable %s: %w", i.name, err)
	}
	res.Enabled = true
	return res, nil
}
