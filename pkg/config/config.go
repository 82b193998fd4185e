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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// EnvPrefix is prepended to every environment override (HOST_TUNER_PROFILE).
const EnvPrefix = "HOST_TUNER"

// SystemConfigFile is the system-wide config location.
const SystemConfigFile = "/etc/host-tuner/config.yaml"

// UserConfigName is the per-user config file in $HOME.
const UserConfigName = ".host-tuner.yaml"

// ProbeConfig configures the connectivity probe.
type ProbeConfig struct {
	Host    string        `mapstructure:"host" json:"host" yaml:"host"`
	Port    int           `mapstructure:"port" json:"port" yaml:"port"`
	Samples int           `mapstructure:"samples" json:"samples" yaml:"samples"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
}

// Config represents the host-tuner configuration.
type Config struct {
	Profile        string        `mapstructure:"profile" json:"profile" yaml:"profile"`
	Interface      string        `mapstructure:"interface" json:"interface,omitempty" yaml:"interface,omitempty"`
	SysctlFile     string        `mapstructure:"sysctl_file" json:"sysctlFile" yaml:"sysctl_file"`
	UnitDir        string        `mapstructure:"unit_dir" json:"unitDir" yaml:"unit_dir"`
	UnitName       string        `mapstructure:"unit_name" json:"unitName" yaml:"unit_name"`
	BinaryPath     string        `mapstructure:"binary_path" json:"binaryPath,omitempty" yaml:"binary_path,omitempty"`
	CommandTimeout time.Duration `mapstructure:"command_timeout" json:"commandTimeout" yaml:"command_timeout"`
	Backup         bool          `mapstructure:"backup" json:"backup" yaml:"backup"`
	Probe          ProbeConfig   `mapstructure:"probe" json:"probe" yaml:"probe"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" json:"-" yaml:"-"`
}

type loader struct {
	file        string
	searchPaths []string
}

// Option configures Load.
type Option func(*loader)

// WithFile reads the given config file. A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithSearchPaths replaces the default config locations.
func WithSearchPaths(paths ...string) Option {
	return func(l *loader) {
		l.searchPaths = paths
	}
}

// DefaultSearchPaths returns the config locations in order of precedence.
func DefaultSearchPaths() []string {
	paths := []string{SystemConfigFile}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserConfigName))
	}
	return paths
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("profile", defaults.Profile)
	v.SetDefault("interface", "")
	v.SetDefault("sysctl_file", defaults.SysctlFile)
	v.SetDefault("unit_dir", defaults.UnitDir)
	v.SetDefault("unit_name", defaults.UnitName)
	v.SetDefault("binary_path", "")
	v.SetDefault("command_timeout", defaults.CommandTimeout)
	v.SetDefault("backup", true)
	v.SetDefault("probe.host", defaults.ProbeHost)
	v.SetDefault("probe.port", defaults.ProbePort)
	v.SetDefault("probe.samples", defaults.ProbeSamples)
	v.SetDefault("probe.timeout", defaults.ProbeTimeout)
}

// Load reads configuration from the first config file found, HOST_TUNER_*
// environment variables and defaults, in increasing order of precedence:
// defaults, file, environment.
func Load(opts ...Option) (*Config, error) {
	l := &loader{searchPaths: DefaultSearchPaths()}
	for _, opt := range opts {
		opt(l)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	file := l.file
	if file == "" {
		for _, p := range l.searchPaths {
			if _, err := os.Stat(p); err == nil {
				file = p
				break
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, terrors.WrapWithContext(terrors.ErrCodeNotFound,
					"config file not found", err, map[string]any{"file": file})
			}
			return nil, terrors.WrapWithContext(terrors.ErrCodeInvalidRequest,
				"failed to read config file", err, map[string]any{"file": file})
		}
		slog.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

// Validate checks the config for values no command can work with.
func (c *Config) Validate() error {
	if _, err := tunable.ParseProfile(c.Profile); err != nil {
		return err
	}
	if c.Probe.Samples <= 0 {
		return invalid("probe.samples must be positive", c.Probe.Samples)
	}
	if c.Probe.Timeout <= 0 {
		return invalid("probe.timeout must be positive", c.Probe.Timeout)
	}
	if c.Probe.Port <= 0 || c.Probe.Port > 65535 {
		return invalid("probe.port must be between 1 and 65535", c.Probe.Port)
	}
	if c.Probe.Host == "" {
		return invalid("probe.host is required", c.Probe.Host)
	}
	if c.CommandTimeout <= 0 {
		return invalid("command_timeout must be positive", c.CommandTimeout)
	}
	if c.SysctlFile == "" || c.UnitDir == "" || c.UnitName == "" {
		return terrors.New(terrors.ErrCodeInvalidRequest, "sysctl_file, unit_dir and unit_name are required")
	}
	return nil
}

// TuningProfile returns the parsed profile. Call Validate first.
func (c *Config) TuningProfile() tunable.Profile {
	p, err := tunable.ParseProfile(c.Profile)
	if err != nil {
		return tunable.ProfileStandard
	}
	return p
}

func invalid(msg string, value any) error {
	return terrors.NewWithContext(terrors.ErrCodeInvalidRequest, msg, map[string]any{"value": value})
}
