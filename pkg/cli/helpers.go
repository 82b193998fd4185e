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

	"github.com/mchmarny/host-tuner/pkg/command"
	"github.com/mchmarny/host-tuner/pkg/config"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/netif"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/serializer"
	"github.com/mchmarny/host-tuner/pkg/systemd"
)

// formatText selects the human report instead of a serializer.
const formatText = "text"

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "output file path (default: stdout)",
}

func formatFlag(def string, allowText bool) *cli.StringFlag {
	formats := serializer.SupportedFormats()
	if allowText {
		formats = append([]string{formatText}, formats...)
	}
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format %v", formats),
		Value:   def,
	}
}

// parseOutputFormat returns the serializer format of the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", terrors.NewWithContext(terrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q", f),
			map[string]any{"supported": serializer.SupportedFormats()})
	}
	return f, nil
}

// loadConfig loads the config file and environment, then applies the
// global flags on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var opts []config.Option
	if f := cmd.String("config"); f != "" {
		opts = append(opts, config.WithFile(f))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("profile") {
		cfg.Profile = cmd.String("profile")
	}
	if cmd.IsSet("interface") {
		cfg.Interface = cmd.String("interface")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config resolved",
		"file", cfg.File,
		"profile", cfg.Profile,
		"interface", cfg.Interface)

	return cfg, nil
}

// host bundles the clients every host-facing command needs.
type host struct {
	cfg     *config.Config
	iface   string
	runner  command.Runner
	manager systemd.Manager
	reader  *probe.Probe
}

// newHost resolves the interface and builds the runner, the service
// manager and the probe. When requireIface is false a detection failure
// is logged and NIC tunables read as absent.
func newHost(cfg *config.Config, requireIface bool) (*host, error) {
	iface, err := netif.NewDetector().Detect(cfg.Interface)
	if err != nil {
		if requireIface {
			return nil, err
		}
		slog.Warn("no network interface, NIC tunables will be absent", "error", err)
		iface = ""
	}

	runner := command.New(command.WithTimeout(cfg.CommandTimeout))
	manager := systemd.NewManager()

	return &host{
		cfg:     cfg,
		iface:   iface,
		runner:  runner,
		manager: manager,
		reader: probe.New(iface,
			probe.WithRunner(runner),
			probe.WithManager(manager),
			probe.WithUnitName(cfg.UnitName)),
	}, nil
}

func (h *host) Close() {
	h.manager.Close()
}

// writeResult renders v as a report when the format is text, otherwise
// serializes it.
func writeResult(ctx context.Context, cmd *cli.Command, v any, render func(io.Writer) error) error {
	path := cmd.String("output")

	if cmd.String("format") == formatText {
		w := serializer.NewFileWriterOrStdout(serializer.FormatTable, path)
		defer closeWriter(w)
		return render(w.Output())
	}

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	w := serializer.NewFileWriterOrStdout(outFormat, path)
	defer closeWriter(w)

	if err := w.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	return nil
}

func closeWriter(c serializer.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
