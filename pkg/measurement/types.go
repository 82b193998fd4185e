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

package measurement

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Common measurement keys.
const (
	KeyInterface = "interface"
	KeyProfile   = "profile"
	KeyAbsent    = "absent"
	SuffixMax    = ".max"
)

// Type is the category of a measurement. It mirrors tunable categories.
type Type string

// String returns the string representation of the measurement Type.
func (mt Type) String() string {
	return string(mt)
}

const (
	TypeNIC     Type = Type(tunable.CategoryNIC)
	TypeKernel  Type = Type(tunable.CategoryKernel)
	TypeCPU     Type = Type(tunable.CategoryCPU)
	TypeService Type = Type(tunable.CategoryService)
)

// Types is the list of all supported measurement types in report order.
var Types = []Type{TypeNIC, TypeKernel, TypeCPU, TypeService}

// ParseType parses a string into a measurement Type.
func ParseType(s string) (Type, bool) {
	for _, mt := range Types {
		if string(mt) == s {
			return mt, true
		}
	}
	return "", false
}

// Measurement is the data of one Type split into named subtypes.
type Measurement struct {
	Type     Type      `json:"type" yaml:"type"`
	Subtypes []Subtype `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
}

// Subtype is a named group of readings, keyed by tunable name. Context
// carries information about where the readings came from.
type Subtype struct {
	Name    string             `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Data    map[string]Reading `json:"data" yaml:"data"`
	Context map[string]string  `json:"context,omitempty" yaml:"context,omitempty"`
}

// AllowedScalar is a constraint (compile-time) for what we allow as readings.
type AllowedScalar interface {
	~int64 | ~bool | ~string
}

// Reading is a runtime interface so mixed scalar types share one map.
type Reading interface {
	isReading()
	Any() any
	String() string

	json.Marshaler
	yaml.Marshaler
}

// Scalar wraps an allowed scalar type.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isReading() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

func Int64(v int64) Reading { return &Scalar[int64]{V: v} }
func Bool(v bool) Reading   { return &Scalar[bool]{V: v} }
func Str(v string) Reading  { return &Scalar[string]{V: v} }

// ParseReading types a raw value read from the host: integers become
// Int64 readings, everything else stays a string.
func ParseReading(raw string) Reading {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int64(n)
	}
	return Str(raw)
}

// Validate checks that the measurement has a known type and well-formed subtypes.
func (m *Measurement) Validate() error {
	if _, ok := ParseType(string(m.Type)); !ok {
		return terrors.NewWithContext(terrors.ErrCodeInvalidRequest,
			"unknown measurement type", map[string]any{"type": m.Type})
	}
	for i := range m.Subtypes {
		if err := m.Subtypes[i].Validate(); err != nil {
			return fmt.Errorf("subtype %d: %w", i, err)
		}
	}
	return nil
}

// GetSubtype returns the subtype called name or nil.
func (m *Measurement) GetSubtype(name string) *Subtype {
	for i := range m.Subtypes {
		if m.Subtypes[i].Name == name {
			return &m.Subtypes[i]
		}
	}
	return nil
}

// GetOrCreateSubtype returns the subtype called name, adding it when missing.
func (m *Measurement) GetOrCreateSubtype(name string) *Subtype {
	if st := m.GetSubtype(name); st != nil {
		return st
	}
	m.Subtypes = append(m.Subtypes, Subtype{Name: name, Data: make(map[string]Reading)})
	return &m.Subtypes[len(m.Subtypes)-1]
}

// SubtypeNames returns subtype names in insertion order.
func (m *Measurement) SubtypeNames() []string {
	names := make([]string, 0, len(m.Subtypes))
	for _, st := range m.Subtypes {
		names = append(names, st.Name)
	}
	return names
}

// Validate checks that the subtype has a name and data.
func (st *Subtype) Validate() error {
	if st.Name == "" {
		return terrors.New(terrors.ErrCodeInvalidRequest, "subtype name is required")
	}
	if st.Data == nil {
		return terrors.New(terrors.ErrCodeInvalidRequest, "subtype data is required")
	}
	return nil
}

// Has reports whether key has a reading.
func (st *Subtype) Has(key string) bool {
	_, ok := st.Data[key]
	return ok
}

// Get returns the reading for key or nil.
func (st *Subtype) Get(key string) Reading {
	return st.Data[key]
}

// Keys returns the data keys sorted.
func (st *Subtype) Keys() []string {
	keys := make([]string, 0, len(st.Data))
	for k := range st.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetString returns the reading for key as a string.
func (st *Subtype) GetString(key string) (string, error) {
	r, ok := st.Data[key]
	if !ok {
		return "", terrors.NewWithContext(terrors.ErrCodeNotFound, "key not found", map[string]any{"key": key})
	}
	return r.String(), nil
}

// AddAbsent records key as unreadable in the subtype context.
func (st *Subtype) AddAbsent(key string) {
	if st.Context == nil {
		st.Context = make(map[string]string)
	}
	list := st.Context[KeyAbsent]
	if list == "" {
		st.Context[KeyAbsent] = key
		return
	}
	st.Context[KeyAbsent] = list + "," + key
}

// SortSubtypes orders subtypes by name.
func (m *Measurement) SortSubtypes() {
	slices.SortFunc(m.Subtypes, func(a, b Subtype) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
}
