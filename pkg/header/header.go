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

package header

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// APIVersion is the schema version of every serialized host-tuner result.
const APIVersion = "hosttuner.io/v1alpha1"

// Kind identifies the type of a serialized result.
type Kind string

const (
	KindVerifyResult Kind = "VerifyResult"
	KindApplyResult  Kind = "ApplyResult"
	KindSnapshot     Kind = "Snapshot"
	KindTunableList  Kind = "TunableList"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindVerifyResult, KindApplyResult, KindSnapshot, KindTunableList:
		return true
	default:
		return false
	}
}

// Header carries Kind, APIVersion and Metadata of a result, following
// Kubernetes resource conventions.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// New creates a Header initialized for kind.
func New(kind Kind, version string, opts ...Option) *Header {
	h := &Header{}
	h.Init(kind, version)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init sets Kind and APIVersion and populates Metadata with the timestamp,
// a run identifier, the hostname and the tool version.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"runId":     uuid.NewString(),
	}
	if host, err := os.Hostname(); err == nil {
		h.Metadata["hostname"] = host
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}

// Set adds or replaces a metadata value.
func (h *Header) Set(key, value string) {
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}
