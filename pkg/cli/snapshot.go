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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/host-tuner/pkg/defaults"
	"github.com/mchmarny/host-tuner/pkg/serializer"
	"github.com/mchmarny/host-tuner/pkg/snapshotter"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture a read-only snapshot of every tunable",
		Description: `Read every tunable in the catalog, regardless of profile, and emit the
values grouped by category (nic, kernel, cpu, service) and source.
Tunables that cannot be read are listed as absent. Nothing is changed.

The snapshot can be output in JSON, YAML, or table format.

# Examples

  host-tuner snapshot --format yaml --output before.yaml
  host-tuner snapshot --metrics-file /var/lib/node_exporter/host-tuner-snapshot.prom`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus textfile metrics of the collection to this path",
			},
			outputFlag,
			formatFlag(string(serializer.FormatYAML), false),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			h, err := newHost(cfg, false)
			if err != nil {
				return err
			}
			defer h.Close()

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			ctx, cancel := context.WithTimeout(ctx, defaults.SnapshotTimeout)
			defer cancel()

			s := &snapshotter.HostSnapshotter{
				Version:    version,
				Interface:  h.iface,
				Reader:     h.reader,
				Serializer: ser,
			}
			if err := s.Measure(ctx); err != nil {
				return err
			}

			if path := cmd.String("metrics-file"); path != "" {
				if err := snapshotter.WriteMetricsFile(path); err != nil {
					slog.Warn("failed to write metrics file", "path", path, "error", err)
				}
			}
			return nil
		},
	}
}
