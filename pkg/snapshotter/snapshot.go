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

package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/host-tuner/pkg/header"
	"github.com/mchmarny/host-tuner/pkg/measurement"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/serializer"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// DefaultConcurrency bounds parallel reads.
const DefaultConcurrency = 4

// HostSnapshotter reads tunables from the current host in parallel and
// serializes the snapshot. Reads never modify the host.
type HostSnapshotter struct {
	// Version is recorded in the snapshot header.
	Version string

	// Interface is the NIC the Reader was built for.
	Interface string

	// Reader reads tunable values. Required.
	Reader probe.Reader

	// Specs to read. If nil, the full catalog is used.
	Specs []tunable.Spec

	// Concurrency bounds parallel reads. If <= 0, DefaultConcurrency is used.
	Concurrency int

	// Serializer is the serializer to use for output. If nil, stdout JSON is used.
	Serializer serializer.Serializer
}

// Measure collects a snapshot and serializes it.
func (h *HostSnapshotter) Measure(ctx context.Context) error {
	snap, err := h.Collect(ctx)
	if err != nil {
		return err
	}

	if h.Serializer == nil {
		h.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	if err := h.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}
	return nil
}

// Collect reads every spec and groups the readings into measurements by
// category and subtypes by source.
func (h *HostSnapshotter) Collect(ctx context.Context) (*Snapshot, error) {
	if h.Reader == nil {
		return nil, fmt.Errorf("snapshot reader is required")
	}
	specs := h.Specs
	if specs == nil {
		specs = tunable.Catalog()
	}
	limit := h.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	slog.Debug("starting host snapshot", "tunables", len(specs), "concurrency", limit)

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	readings := make([]probe.Reading, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			readStart := time.Now()
			readings[i] = h.Reader.Read(gctx, spec)
			snapshotReadDuration.WithLabelValues(string(spec.Source)).Observe(time.Since(readStart).Seconds())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to collect snapshot: %w", err)
	}

	snap := NewSnapshot()
	snap.Init(header.KindSnapshot, h.Version)
	snap.Interface = h.Interface
	if h.Interface != "" {
		snap.Set(measurement.KeyInterface, h.Interface)
	}

	absent := 0
	byType := make(map[measurement.Type]*measurement.Measurement)
	for i, spec := range specs {
		t := measurement.Type(spec.Category)
		m, ok := byType[t]
		if !ok {
			m = &measurement.Measurement{Type: t}
			byType[t] = m
		}
		st := m.GetOrCreateSubtype(subtypeName(spec))

		r := readings[i]
		if !r.Present {
			st.AddAbsent(spec.Name)
			absent++
			continue
		}
		st.Data[spec.Name] = measurement.ParseReading(r.Value)
		if r.Max != "" {
			st.Data[spec.Name+measurement.SuffixMax] = measurement.ParseReading(r.Max)
		}
	}

	for _, t := range measurement.Types {
		if m, ok := byType[t]; ok {
			m.SortSubtypes()
			snap.Measurements = append(snap.Measurements, m)
		}
	}

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	snapshotAbsentCount.Set(float64(absent))
	slog.Debug("snapshot collection complete",
		slog.Int("tunables", len(specs)),
		slog.Int("absent", absent),
		slog.Duration("duration", time.Since(start)))

	return snap, nil
}

func subtypeName(spec tunable.Spec) string {
	if spec.Source == tunable.SourceCommand && spec.Format != "" {
		return string(spec.Format)
	}
	return string(spec.Source)
}
