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

package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/host-tuner/pkg/bootunit"
	"github.com/mchmarny/host-tuner/pkg/config"
	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/report"
	"github.com/mchmarny/host-tuner/pkg/sysctlconf"
	"github.com/mchmarny/host-tuner/pkg/tuner"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Apply low-latency tuning to this host",
		Description: `Detect the primary network interface and move every mutable tunable of
the profile to its target, one at a time:

  - NIC interrupt coalescing, offloads and ring buffers (ethtool)
  - kernel parameters (/proc/sys)
  - CPU frequency governor and idle states
  - IRQ balancing service

Items that cannot be changed are reported and skipped. Kernel parameters
are persisted into a marked block of the sysctl file (backed up before each
write) and a boot-time unit is installed and enabled to re-apply the tuning
on every boot. Running apply again does not duplicate the block or the unit.

Requires root, except with --dry-run.

# Examples

Preview changes:
  host-tuner apply --dry-run

Apply the hft profile:
  sudo host-tuner apply --profile hft`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Read and plan without changing anything",
			},
			&cli.BoolFlag{
				Name:  "boot",
				Usage: "Boot mode: mutate only, skip persistence and unit install (used by the boot unit)",
			},
			outputFlag,
			formatFlag(formatText, true),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mode := tuner.ModeApply
			switch {
			case cmd.Bool("dry-run") && cmd.Bool("boot"):
				return terrors.New(terrors.ErrCodeInvalidRequest, "--dry-run and --boot are mutually exclusive")
			case cmd.Bool("dry-run"):
				mode = tuner.ModeDryRun
			case cmd.Bool("boot"):
				mode = tuner.ModeBoot
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			h, err := newHost(cfg, true)
			if err != nil {
				return err
			}
			defer h.Close()

			profile := cfg.TuningProfile()
			slog.Info("applying tuning",
				"interface", h.iface,
				"profile", profile,
				"mode", mode)

			t := tuner.New(h.reader, h.runner, h.manager,
				tuner.WithInterface(h.iface),
				tuner.WithProfile(profile),
				tuner.WithMode(mode),
				tuner.WithVersion(version),
				tuner.WithBinary(cfg.BinaryPath),
				tuner.WithBootArgs(cfg.Interface, bootConfigPath(cfg)),
				tuner.WithUnitName(cfg.UnitName),
				tuner.WithSysctlWriter(sysctlconf.NewWriter(cfg.SysctlFile, sysctlconf.WithBackup(cfg.Backup))),
				tuner.WithInstaller(bootunit.NewInstaller(cfg.UnitDir, cfg.UnitName, h.manager)),
			)

			ctx, cancel := context.WithTimeout(ctx, defaults.ApplyTimeout)
			defer cancel()

			res, err := t.Apply(ctx)
			if err != nil {
				return err
			}

			return writeResult(ctx, cmd, res, func(w io.Writer) error {
				return report.WriteApply(w, res)
			})
		},
	}
}

// bootConfigPath returns the absolute path of the config file apply ran
// with, so the boot unit reads the same settings regardless of its cwd.
func bootConfigPath(cfg *config.Config) string {
	if cfg.File == "" {
		return ""
	}
	abs, err := filepath.Abs(cfg.File)
	if err != nil {
		return cfg.File
	}
	return abs
}
