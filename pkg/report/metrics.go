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
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/host-tuner/pkg/validator"
)

// Numeric values of hosttuner_verify_tunable_status.
const (
	StatusValuePass = 0
	StatusValueWarn = 1
	StatusValueFail = 2
)

// NewVerifyRegistry returns a private registry holding the gauges of one
// verify run. The default registry is left alone so process metrics do not
// leak into the textfile.
func NewVerifyRegistry(res *validator.VerifyResult) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	tunables := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hosttuner_verify_tunables",
		Help: "Number of tunables by verify status",
	}, []string{"status"})

	status := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hosttuner_verify_tunable_status",
		Help: "Verify status of each tunable (0 pass, 1 warn, 2 fail)",
	}, []string{"name", "category", "severity"})

	exitCode := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hosttuner_verify_exit_code",
		Help: "Exit code of the last verify run",
	})

	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hosttuner_verify_last_run_timestamp_seconds",
		Help: "Unix time of the last verify run",
	})

	reg.MustRegister(tunables, status, exitCode, lastRun)

	tunables.WithLabelValues(string(validator.StatusPass)).Set(float64(res.Tally.Pass))
	tunables.WithLabelValues(string(validator.StatusWarn)).Set(float64(res.Tally.Warn))
	tunables.WithLabelValues(string(validator.StatusFail)).Set(float64(res.Tally.Fail))

	for _, r := range res.Results {
		v := StatusValuePass
		switch r.Status {
		case validator.StatusWarn:
			v = StatusValueWarn
		case validator.StatusFail:
			v = StatusValueFail
		}
		status.WithLabelValues(r.Name, string(r.Category), string(r.Severity)).Set(float64(v))
	}

	exitCode.Set(float64(res.ExitCode()))
	lastRun.Set(float64(runTime(res).Unix()))

	if c := res.Connectivity; c != nil {
		rtt := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hosttuner_connectivity_rtt_seconds",
			Help: "Average round trip time of the connectivity probe",
		}, []string{"host", "method", "tier"})
		received := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hosttuner_connectivity_replies",
			Help: "Replies received by the connectivity probe",
		}, []string{"host"})
		reg.MustRegister(rtt, received)

		rtt.WithLabelValues(c.Host, string(c.Method), string(c.Tier)).Set(c.AvgRTT.Seconds())
		received.WithLabelValues(c.Host).Set(float64(c.Received))
	}

	return reg
}

// WriteMetricsFile writes the verify gauges to path in the Prometheus
// textfile format read by the node_exporter textfile collector.
func WriteMetricsFile(path string, res *validator.VerifyResult) error {
	if res == nil {
		return fmt.Errorf("verify result is nil")
	}
	if err := prometheus.WriteToTextfile(path, NewVerifyRegistry(res)); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}

func runTime(res *validator.VerifyResult) time.Time {
	if ts, err := time.Parse(time.RFC3339, res.Metadata["timestamp"]); err == nil {
		return ts
	}
	return time.Now()
}
