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

// Package entity turns raw detector output into typed, bounded entity
// spans over a document's term sequence.
package entity

import (
	"context"
	"fmt"
)

// Bound is an offset interval into an ordered term sequence.
type Bound struct {
	// Position is the 0-based index of the first term of the span.
	Position int `json:"position"`
	// Length is the number of terms in the span, at least 1.
	Length int `json:"length"`
}

// End returns the exclusive end index of the bound.
func (b Bound) End() int { return b.Position + b.Length }

// String renders the bound as "position:length".
func (b Bound) String() string { return fmt.Sprintf("%d:%d", b.Position, b.Length) }

// Entity is a typed text span. Entities are immutable once created by
// the Extractor; downstream stages only read them.
type Entity struct {
	// Value is the exact space-joined surface string of the span.
	Value string `json:"value"`
	// Type is the detector's object type (e.g., "ORG", "PERSON").
	Type string `json:"type"`
	// Bound locates the span within the document's term sequence.
	Bound Bound `json:"bound"`
}

// Detection is a raw span reported by a detector: 0-based position,
// length >= 1, and an object type.
type Detection struct {
	Position   int    `json:"position"`
	Length     int    `json:"length"`
	ObjectType string `json:"object_type"`
}

// Detector is the external span detector. Extract returns one detection
// sequence per input term sequence, preserving input order.
//
// Detectors are not assumed thread-safe; use PooledDetector to serve
// concurrent callers.
type Detector interface {
	Extract(ctx context.Context, sequences [][]string) ([][]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}
