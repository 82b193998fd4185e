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
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the snapshot metrics, apart from the default registry so
// the textfile carries no process metrics.
var Registry = prometheus.NewRegistry()

var (
	factory = promauto.With(Registry)

	snapshotCollectionDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hosttuner_snapshot_collection_duration_seconds",
			Help:    "Time taken to read every tunable for a snapshot",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	snapshotCollectionTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hosttuner_snapshot_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"status"}, // success or error
	)

	snapshotReadDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hosttuner_snapshot_read_duration_seconds",
			Help:    "Time taken to read one tunable",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"}, // command, sysctl, sysfs, cmdline, service, kernel
	)

	snapshotAbsentCount = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "hosttuner_snapshot_absent_tunables",
			Help: "Number of tunables that could not be read in the last snapshot",
		},
	)
)

// WriteMetricsFile writes the snapshot metrics to path in the Prometheus
// textfile format read by the node_exporter textfile collector.
func WriteMetricsFile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}
