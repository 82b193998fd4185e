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

// Package config loads host-tuner settings with viper.
//
// Sources, lowest precedence first:
//
//  1. built-in defaults (package defaults)
//  2. the first config file found: --config, /etc/host-tuner/config.yaml,
//     then $HOME/.host-tuner.yaml
//  3. HOST_TUNER_* environment variables, with "." and "-" mapped to "_"
//     (HOST_TUNER_PROBE_SAMPLES overrides probe.samples)
//
// Command-line flags are applied by the cli package on top of the loaded
// Config.
//
// Example config file:
//
//	profile: hft
//	interface: ens5
//	backup: true
//	probe:
//	  host: 10.0.0.1
//	  samples: 10
//	  timeout: 1s
package config
