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

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mchmarny/host-tuner/pkg/tunable"
)

var titleCaser = cases.Title(language.English)

var categoryLabels = map[tunable.Category]string{
	tunable.CategoryNIC:     "NIC",
	tunable.CategoryKernel:  "Kernel",
	tunable.CategoryCPU:     "CPU",
	tunable.CategoryService: "Services",
}

// byteSized tunables hold buffer sizes in bytes, possibly as a
// "min default max" triple.
var byteSized = map[string]bool{
	"rmem_max": true,
	"wmem_max": true,
	"tcp_rmem": true,
	"tcp_wmem": true,
}

// CategoryLabel returns the section title of c.
func CategoryLabel(c tunable.Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return titleCaser.String(string(c))
}

// Label turns a tunable name into a title ("busy_poll" -> "Busy Poll").
func Label(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// HumanValue annotates byte-sized values with IEC units
// ("16777216" -> "16777216 (16 MiB)"). Other values are returned as is.
func HumanValue(name, value string) string {
	if !byteSized[name] {
		return value
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return value
	}
	human := make([]string, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return value
		}
		human = append(human, humanize.IBytes(n))
	}
	return fmt.Sprintf("%s (%s)", value, strings.Join(human, " "))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
