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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	h := New(KindVerifyResult, "v1.2.3", WithMetadata("profile", "hft"))

	assert.Equal(t, KindVerifyResult, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "v1.2.3", h.Metadata["version"])
	assert.Equal(t, "hft", h.Metadata["profile"])

	_, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
	_, err = uuid.Parse(h.Metadata["runId"])
	require.NoError(t, err)
}

func TestInit_UniqueRunID(t *testing.T) {
	a := New(KindApplyResult, "")
	b := New(KindApplyResult, "")
	assert.NotEqual(t, a.Metadata["runId"], b.Metadata["runId"])
	assert.NotContains(t, a.Metadata, "version")
}

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindVerifyResult, true},
		{KindApplyResult, true},
		{KindSnapshot, true},
		{KindTunableList, true},
		{Kind("Recipe"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestSet(t *testing.T) {
	var h Header
	h.Set("interface", "eth0")
	assert.Equal(t, "eth0", h.Metadata["interface"])
}
