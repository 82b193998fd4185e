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

package netif

import (
	"log/slog"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mchmarny/host-tuner/pkg/collector/file"
	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

const defaultDestination = "00000000"

// Interface is the subset of net.Interface used for detection.
type Interface struct {
	Name     string
	Up       bool
	Loopback bool
}

// Detector finds the primary network interface.
type Detector struct {
	routePath   string
	sysClassNet string
	list        func() ([]Interface, error)
}

// Option configures a Detector.
type Option func(*Detector)

// WithRoutePath overrides the routing table file (default /proc/net/route).
func WithRoutePath(path string) Option {
	return func(d *Detector) {
		d.routePath = path
	}
}

// WithSysClassNet overrides the sysfs network class directory
// (default /sys/class/net).
func WithSysClassNet(dir string) Option {
	return func(d *Detector) {
		d.sysClassNet = dir
	}
}

// WithInterfaces overrides the interface lister.
func WithInterfaces(list func() ([]Interface, error)) Option {
	return func(d *Detector) {
		d.list = list
	}
}

// NewDetector returns a Detector reading the live host.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		routePath:   defaults.ProcNetRoute,
		sysClassNet: defaults.SysClassNet,
		list:        systemInterfaces,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns override when it names an existing interface (listed, or
// present under /sys/class/net when listing fails), otherwise
// the interface of the lowest-metric default route, otherwise the first
// interface that is up and not loopback. No candidate is FATAL.
func (d *Detector) Detect(override string) (string, error) {
	ifaces, err := d.list()
	if err != nil {
		slog.Warn("failed to list interfaces", "error", err)
	}

	if override != "" {
		for _, i := range ifaces {
			if i.Name == override {
				return override, nil
			}
		}
		if d.inSysfs(override) {
			slog.Debug("interface found in sysfs", "interface", override)
			return override, nil
		}
		return "", terrors.NewWithContext(terrors.ErrCodeFatal,
			"configured interface does not exist", map[string]any{"interface": override})
	}

	if name, ok := d.defaultRoute(); ok {
		slog.Debug("interface from default route", "interface", name)
		return name, nil
	}

	for _, i := range ifaces {
		if i.Up && !i.Loopback {
			slog.Debug("interface from first up link", "interface", i.Name)
			return i.Name, nil
		}
	}

	return "", terrors.New(terrors.ErrCodeFatal, "no primary network interface found")
}

// defaultRoute parses the kernel routing table: Iface, Destination,
// Gateway, Flags, RefCnt, Use, Metric, ...
func (d *Detector) defaultRoute() (string, bool) {
	lines, err := file.NewParser().GetLines(d.routePath)
	if err != nil {
		slog.Debug("routing table unavailable", "path", d.routePath, "error", err)
		return "", false
	}

	best, bestMetric := "", math.MaxInt
	for _, line := range lines {
		f := strings.Fields(line)
		if len(f) < 7 || f[1] != defaultDestination {
			continue
		}
		metric, err := strconv.Atoi(f[6])
		if err != nil {
			continue
		}
		if metric < bestMetric {
			best, bestMetric = f[0], metric
		}
	}
	return best, best != ""
}

// inSysfs reports whether name has an entry in the sysfs network class.
func (d *Detector) inSysfs(name string) bool {
	if name == "" || strings.ContainsRune(name, '/') || name == "." || name == ".." {
		return false
	}
	_, err := os.Stat(filepath.Join(d.sysClassNet, name))
	return err == nil
}

func systemInterfaces() ([]Interface, error) {
	list, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Interface, 0, len(list))
	for _, i := range list {
		out = append(out, Interface{
			Name:     i.Name,
			Up:       i.Flags&net.FlagUp != 0,
			Loopback: i.Flags&net.FlagLoopback != 0,
		})
	}
	return out, nil
}
