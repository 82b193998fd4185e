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

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/host-tuner/pkg/serializer"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

func tunablesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "tunables",
		EnableShellCompletion: true,
		Usage:                 "List the tunables of a profile",
		Flags: []cli.Flag{
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

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			if err := ser.Serialize(ctx, tunable.NewList(cfg.TuningProfile(), version)); err != nil {
				return fmt.Errorf("failed to serialize tunables: %w", err)
			}
			return nil
		},
	}
}
