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
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/host-tuner/pkg/config"
	"github.com/mchmarny/host-tuner/pkg/connectivity"
	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/report"
	"github.com/mchmarny/host-tuner/pkg/validator"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "Verify that this host is tuned for low latency",
		Description: `Read every tunable of the profile and classify it:

  pass - observed value matches the expectation
  warn - optional tunable is off target or could not be read
  fail - critical tunable is off target or could not be read

A short connectivity probe (ping, TCP connect when ping is unavailable)
reports a latency tier for information only; it never changes the result.

Exits 0 when nothing failed and 1 otherwise, so verify can gate a
deployment.

# Examples

Verify and write node_exporter textfile metrics:
  host-tuner verify --metrics-file /var/lib/node_exporter/host-tuner.prom

Machine-readable output:
  host-tuner verify --format json --output verify.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus textfile metrics to this path",
			},
			&cli.BoolFlag{
				Name:  "skip-connectivity",
				Usage: "Skip the connectivity probe",
			},
			outputFlag,
			formatFlag(formatText, true),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			h, err := newHost(cfg, false)
			if err != nil {
				return err
			}
			defer h.Close()

			opts := []validator.Option{
				validator.WithVersion(version),
				validator.WithProfile(cfg.TuningProfile()),
				validator.WithInterface(h.iface),
			}
			if !cmd.Bool("skip-connectivity") {
				opts = append(opts, validator.WithProber(newPinger(cfg)))
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.VerifyTimeout)
			defer cancel()

			res, err := validator.NewVerifier(h.reader, opts...).Verify(ctx)
			if err != nil {
				return err
			}

			if err := writeResult(ctx, cmd, res, func(w io.Writer) error {
				return report.WriteVerify(w, res)
			}); err != nil {
				return err
			}

			if path := cmd.String("metrics-file"); path != "" {
				if err := report.WriteMetricsFile(path, res); err != nil {
					slog.Warn("failed to write metrics file", "path", path, "error", err)
				}
			}

			if res.ExitCode() != 0 {
				return terrors.NewWithContext(terrors.ErrCodeCriticalMissing,
					fmt.Sprintf("%d critical tunable(s) not at target", res.Tally.Fail),
					map[string]any{"pass": res.Tally.Pass, "warn": res.Tally.Warn, "fail": res.Tally.Fail})
			}
			return nil
		},
	}
}

// newPinger builds the connectivity probe. Ping runs on its own runner
// sized to the probe budget rather than the per-command timeout.
func newPinger(cfg *config.Config) *connectivity.Pinger {
	return connectivity.New(
		connectivity.WithHost(cfg.Probe.Host),
		connectivity.WithPort(cfg.Probe.Port),
		connectivity.WithSamples(cfg.Probe.Samples),
		connectivity.WithTimeout(cfg.Probe.Timeout),
	)
}
