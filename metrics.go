// Copyright 2025 The ARElight Authors
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

package arelight

import "github.com/prometheus/client_golang/prometheus"

var (
	entityExtractionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arelight",
			Subsystem: "pipeline",
			Name:      "entity_extraction_ops_total",
			Help:      "The total number of entities extracted.",
		},
		[]string{"split"},
	)
	pairGenerationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arelight",
			Subsystem: "pipeline",
			Name:      "pair_generation_ops_total",
			Help:      "The total number of candidate pairs generated.",
		},
		[]string{"split"},
	)
	rowEncodingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arelight",
			Subsystem: "pipeline",
			Name:      "row_encoding_ops_total",
			Help:      "The total number of sample rows encoded.",
		},
		[]string{"split"},
	)
	predictionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arelight",
			Subsystem: "pipeline",
			Name:      "prediction_ops_total",
			Help:      "The total number of rows labeled by the predictor.",
		},
		[]string{"split"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arelight",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Time taken by one pipeline run.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"split"},
	)
)

// RegisterMetrics registers all pipeline metrics with Prometheus.
// Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(entityExtractionOps)
	prometheus.MustRegister(pairGenerationOps)
	prometheus.MustRegister(rowEncodingOps)
	prometheus.MustRegister(predictionOps)
	prometheus.MustRegister(runDuration)
}
