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
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser splits text from files or command output into lines or key/value
// pairs. The zero configuration splits on newlines, skips '#' comments and
// uses '=' between keys and values.
type Parser struct {
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithDelimiter sets the separator between records.
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the largest input, in bytes, the parser accepts.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments toggles dropping records that start with '#'.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the separator between a key and its value.
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value stored for key-only records.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters trimmed from both ends of every value.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops records whose value is empty.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a Parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads path and returns its non-empty records.
func (p *Parser) GetLines(path string) ([]string, error) {
	content, err := p.read(path)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(content), nil
}

// GetMap reads path and returns its records as key/value pairs.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	content, err := p.read(path)
	if err != nil {
		return nil, err
	}
	return p.ParseMap(content), nil
}

// GetValue reads a single-value file such as a /proc/sys or sysfs entry.
// Internal runs of whitespace collapse to one space, so "4096\t87380\t6291456"
// reads as "4096 87380 6291456".
func (p *Parser) GetValue(path string) (string, error) {
	content, err := p.read(path)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(content), " "), nil
}

// ParseLines splits content into trimmed, non-empty records.
func (p *Parser) ParseLines(content string) []string {
	parts := strings.Split(content, p.delimiter)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}
	return result
}

// ParseMap splits content into key/value pairs. Records without the key
// delimiter store the default value unless empty values are skipped. Later
// duplicates win.
func (p *Parser) ParseMap(content string) map[string]string {
	result := make(map[string]string)
	for _, part := range p.ParseLines(content) {
		kv := strings.SplitN(part, p.kvDelimiter, 2)
		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}

		if len(kv) != 2 {
			if p.skipEmptyValues && p.vDefault == "" {
				slog.Debug("skipping key-only record", "key", key)
				continue
			}
			result[key] = p.vDefault
			continue
		}

		value := strings.TrimSpace(kv[1])
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result
}

func (p *Parser) read(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("content of file %q is not valid UTF-8", path)
	}
	if len(b) > p.maxSize {
		return "", fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}
	return string(b), nil
}
