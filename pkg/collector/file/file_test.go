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

package file

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestNewParser(t *testing.T) {
	p := NewParser()
	if p.delimiter != "\n" {
		t.Errorf("delimiter = %q, want newline", p.delimiter)
	}
	if p.kvDelimiter != "=" {
		t.Errorf("kvDelimiter = %q, want =", p.kvDelimiter)
	}
	if !p.skipComments {
		t.Error("skipComments should default to true")
	}
	if p.maxSize != 1<<20 {
		t.Errorf("maxSize = %d, want %d", p.maxSize, 1<<20)
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		content string
		want    []string
	}{
		{
			name:    "skips blanks and comments",
			content: "# managed\nnet.core.busy_poll = 50\n\n  \nnet.core.busy_read = 50\n",
			want:    []string{"net.core.busy_poll = 50", "net.core.busy_read = 50"},
		},
		{
			name:    "keeps comments when disabled",
			opts:    []Option{WithSkipComments(false)},
			content: "# one\ntwo",
			want:    []string{"# one", "two"},
		},
		{
			name:    "space delimiter",
			opts:    []Option{WithDelimiter(" ")},
			content: "ro quiet  idle=poll",
			want:    []string{"ro", "quiet", "idle=poll"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParser(tt.opts...).ParseLines(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMap(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		content string
		want    map[string]string
	}{
		{
			name:    "colon pairs",
			opts:    []Option{WithKVDelimiter(":")},
			content: "rx-usecs: 0\ntx-usecs:\t8\nrx-frames: n/a\n",
			want:    map[string]string{"rx-usecs": "0", "tx-usecs": "8", "rx-frames": "n/a"},
		},
		{
			name:    "key only uses default",
			opts:    []Option{WithDelimiter(" "), WithVDefault("present")},
			content: "quiet intel_idle.max_cstate=0",
			want:    map[string]string{"quiet": "present", "intel_idle.max_cstate": "0"},
		},
		{
			name:    "skip empty values",
			opts:    []Option{WithKVDelimiter(":"), WithSkipEmptyValues(true)},
			content: "Ring parameters for eth0:\nRX: 4096\n",
			want:    map[string]string{"RX": "4096"},
		},
		{
			name:    "trim quotes",
			opts:    []Option{WithVTrimChars(`"`)},
			content: `ID="ubuntu"`,
			want:    map[string]string{"ID": "ubuntu"},
		},
		{
			name:    "value keeps later delimiters",
			content: "a=b=c",
			want:    map[string]string{"a": "b=c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParser(tt.opts...).ParseMap(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetValue_NormalizesWhitespace(t *testing.T) {
	path := writeFile(t, "4096\t87380\t16777216\n")
	got, err := NewParser().GetValue(path)
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if got != "4096 87380 16777216" {
		t.Errorf("GetValue() = %q", got)
	}
}

func TestGetLines_Errors(t *testing.T) {
	p := NewParser()
	if _, err := p.GetLines(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := p.GetLines(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}

	big := writeFile(t, "0123456789")
	if _, err := NewParser(WithMaxSize(4)).GetLines(big); err == nil {
		t.Error("expected error for oversized file")
	}

	bad := writeFile(t, string([]byte{0xff, 0xfe}))
	if _, err := p.GetMap(bad); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}
