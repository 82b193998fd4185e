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

package probe

import (
	"strings"

	"github.com/mchmarny/host-tuner/pkg/collector/file"
)

const notAvailable = "n/a"

var kvParser = file.NewParser(
	file.WithKVDelimiter(":"),
	file.WithSkipEmptyValues(true),
	file.WithSkipComments(false),
)

// ParseKeyValue parses "key: value" tool output. Section headers ending in
// a colon and "n/a" values are dropped.
func ParseKeyValue(out string) map[string]string {
	m := kvParser.ParseMap(out)
	for k, v := range m {
		if v == notAvailable {
			delete(m, k)
		}
	}
	return m
}

// ParseCoalesce parses `ethtool -c`. The combined line
// "Adaptive RX: on  TX: off" becomes adaptive-rx and adaptive-tx.
func ParseCoalesce(out string) map[string]string {
	m := ParseKeyValue(out)
	if v, ok := m["Adaptive RX"]; ok {
		delete(m, "Adaptive RX")
		f := strings.Fields(v)
		if len(f) > 0 && f[0] != notAvailable {
			m["adaptive-rx"] = f[0]
		}
		if len(f) > 2 && f[1] == "TX:" && f[2] != notAvailable {
			m["adaptive-tx"] = f[2]
		}
	}
	return m
}

// ParseFeatures parses `ethtool -k`, keeping only the state of each
// feature ("on [fixed]" becomes "on").
func ParseFeatures(out string) map[string]string {
	m := ParseKeyValue(out)
	for k, v := range m {
		m[k] = strings.Fields(v)[0]
	}
	return m
}

// ParseRing parses `ethtool -g` into current and pre-set maximum values.
func ParseRing(out string) (current, maximum map[string]string) {
	current = make(map[string]string)
	maximum = make(map[string]string)

	var section map[string]string
	for _, line := range kvParser.ParseLines(out) {
		switch {
		case strings.HasPrefix(line, "Pre-set maximums"):
			section = maximum
			continue
		case strings.HasPrefix(line, "Current hardware settings"):
			section = current
			continue
		}
		if section == nil {
			continue
		}
		for k, v := range kvParser.ParseMap(line) {
			if v != notAvailable {
				section[k] = v
			}
		}
	}
	return current, maximum
}
