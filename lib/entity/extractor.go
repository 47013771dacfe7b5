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

package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrBoundOutOfRange is returned when a detector reports a span outside
// the input term sequence. This is a detector contract violation and is
// fatal; bounds are never clamped.
var ErrBoundOutOfRange = errors.New("detection bound out of term sequence range")

// Extractor converts raw detections into entities over a term sequence.
// It is reusable across documents but inherits the thread-safety of its
// detector.
type Extractor struct {
	detector Detector
	filter   Filter
	logger   *zap.Logger
}

// NewExtractor wraps a detector with a keep-filter. A nil logger disables
// logging.
func NewExtractor(detector Detector, filter Filter, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{detector: detector, filter: filter, logger: logger}
}

// Extract runs the detector over a single term sequence and returns the
// kept entities in detection order. Each entity's value is the exact
// space-joined slice of the input terms.
func (e *Extractor) Extract(ctx context.Context, terms []string) ([]Entity, error) {
	detected, err := e.detector.Extract(ctx, [][]string{terms})
	if err != nil {
		return nil, fmt.Errorf("running detector: %w", err)
	}
	if len(detected) != 1 {
		return nil, fmt.Errorf("detector returned %d sequences for 1 input", len(detected))
	}

	var entities []Entity
	dropped := 0
	for _, d := range detected[0] {
		if d.Position < 0 || d.Length < 1 || d.Position+d.Length > len(terms) {
			return nil, fmt.Errorf("%w: position=%d length=%d terms=%d",
				ErrBoundOutOfRange, d.Position, d.Length, len(terms))
		}
		if !e.filter.Keep(d.ObjectType) {
			dropped++
			continue
		}
		entities = append(entities, Entity{
			Value: strings.Join(terms[d.Position:d.Position+d.Length], " "),
			Type:  d.ObjectType,
			Bound: Bound{Position: d.Position, Length: d.Length},
		})
	}

	e.logger.Debug("Extracted entities",
		zap.Int("num_terms", len(terms)),
		zap.Int("kept", len(entities)),
		zap.Int("dropped", dropped))

	return entities, nil
}
