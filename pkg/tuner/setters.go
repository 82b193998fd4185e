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
	"log/slog"
	"os"
	"path/filepath"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// target returns the value a spec is set to. Ring buffers go to the
// maximum reported by the reading.
func target(spec tunable.Spec, r probe.Reading) (string, error) {
	if spec.Expect != tunable.ExpectMaximum {
		return spec.Expect, nil
	}
	if !r.Present || r.Max == "" {
		return "", terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"hardware maximum not reported", map[string]any{"tunable": spec.Name})
	}
	return r.Max, nil
}

// set changes spec to value on the host.
func (t *Tuner) set(ctx context.Context, spec tunable.Spec, value string) error {
	switch spec.Source {
	case tunable.SourceCommand:
		return t.setNIC(ctx, spec, value)
	case tunable.SourceSysctl:
		return t.setSysctl(ctx, spec, value)
	case tunable.SourceSysfs:
		return t.setCPU(ctx, spec, value)
	case tunable.SourceService:
		return t.setService(ctx, spec)
	default:
		return terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"tunable cannot be set at runtime", map[string]any{"source": spec.Source})
	}
}

func (t *Tuner) setNIC(ctx context.Context, spec tunable.Spec, value string) error {
	if t.iface == "" {
		return terrors.New(terrors.ErrCodeUnsupported, "no network interface")
	}

	var flag string
	switch spec.Format {
	case tunable.FormatCoalesce:
		flag = "-C"
	case tunable.FormatFeatures:
		flag = "-K"
	case tunable.FormatRing:
		flag = "-G"
	default:
		return terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"no setter for command format", map[string]any{"format": spec.Format})
	}

	_, err := t.runner.Run(ctx, "ethtool", flag, t.iface, spec.SetterKey(), value)
	return err
}

func (t *Tuner) setSysctl(ctx context.Context, spec tunable.Spec, value string) error {
	if len(spec.Prepare) > 0 {
		if _, err := t.runner.Run(ctx, spec.Prepare[0], spec.Prepare[1:]...); err != nil {
			slog.Debug("prepare step failed", "tunable", spec.Name, "error", err)
		}
	}

	path := spec.SysctlPath(t.procSysRoot)
	if _, err := os.Stat(path); err != nil {
		return terrors.WrapWithContext(terrors.ErrCodeUnsupported,
			"sysctl not present on this kernel", err, map[string]any{"key": spec.Key})
	}
	return writeValue(path, value)
}

// setCPU tries cpupower first for the governor and sysfs first for
// C-states, falling back to the other on failure.
func (t *Tuner) setCPU(ctx context.Context, spec tunable.Spec, value string) error {
	pattern := filepath.Join(t.sysCPURoot, spec.Path)

	switch spec.Name {
	case "cpu_governor":
		if _, err := t.runner.LookPath("cpupower"); err == nil {
			if _, err := t.runner.Run(ctx, "cpupower", "frequency-set", "-g", value); err == nil {
				return nil
			}
		}
		return writeGlob(pattern, value)

	case "cstates_disabled":
		err := writeGlob(pattern, value)
		if err == nil {
			return nil
		}
		if _, lookErr := t.runner.LookPath("cpupower"); lookErr != nil {
			return err
		}
		_, runErr := t.runner.Run(ctx, "cpupower", "idle-set", "-D", "0")
		return runErr

	default:
		return writeGlob(pattern, value)
	}
}

func (t *Tuner) setService(ctx context.Context, spec tunable.Spec) error {
	name := spec.UnitName(t.unitName)
	if err := t.manager.Stop(ctx, name); err != nil {
		return err
	}
	if err := t.manager.Disable(ctx, name); err != nil {
		slog.Warn("failed to disable unit", "unit", name, "error", err)
	}
	return nil
}

func writeGlob(pattern, value string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return terrors.NewWithContext(terrors.ErrCodeUnsupported,
			"no sysfs entries", map[string]any{"path": pattern})
	}
	for _, m := range matches {
		if err := writeValue(m, value); err != nil {
			return err
		}
	}
	return nil
}

func writeValue(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return classifyWriteErr(path, err)
	}
	if _, err := fmt.Fprintln(f, value); err != nil {
		f.Close()
		return classifyWriteErr(path, err)
	}
	if err := f.Close(); err != nil {
		return classifyWriteErr(path, err)
	}
	return nil
}

func classifyWriteErr(path string, err error) error {
	code := terrors.ErrCodeInternal
	switch {
	case os.IsNotExist(err):
		code = terrors.ErrCodeUnsupported
	case os.IsPermission(err):
		code = terrors.ErrCodeUnauthorized
	}
	return terrors.WrapWithContext(code, "failed to write value", err, map[string]any{"path": path})
}
