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

// Package labels defines the closed set of relation labels and the
// scaler mapping between labels and the dense integer codes a predictor
// emits.
package labels

import (
	"errors"
	"fmt"
)

// Label is a relation label attached to an entity pair.
type Label string

const (
	// None is the placeholder label for inference-only runs where the
	// true label is unknown.
	None Label = "no-label"
	// Positive marks a positive attitude from source to target.
	Positive Label = "positive"
	// Negative marks a negative attitude from source to target.
	Negative Label = "negative"
)

// ErrUnknownLabel is returned when a label is not part of the scaler.
var ErrUnknownLabel = errors.New("label not registered in scaler")

// ErrScoreLength is returned when a score vector's length does not match
// the scaler's label cardinality.
var ErrScoreLength = errors.New("score vector length does not match labels count")

// Scaler is a bijection between labels and integer codes 0..LabelsCount-1.
// The code order follows the enumeration order the scaler was built with.
type Scaler interface {
	// LabelsCount returns the number of labels in the enumeration.
	LabelsCount() int

	// ToInt returns the dense integer code for the given label.
	ToInt(l Label) (int, error)

	// ToLabel returns the label assigned to the given integer code.
	ToLabel(code int) (Label, error)

	// Labels returns all labels in code order.
	Labels() []Label
}

type orderedScaler struct {
	order []Label
	codes map[Label]int
}

// NewScaler builds a scaler over the given labels in enumeration order.
func NewScaler(order ...Label) (Scaler, error) {
	if len(order) == 0 {
		return nil, errors.New("scaler requires at least one label")
	}
	codes := make(map[Label]int, len(order))
	for i, l := range order {
		if _, dup := codes[l]; dup {
			return nil, fmt.Errorf("duplicate label %q in scaler", l)
		}
		codes[l] = i
	}
	return &orderedScaler{order: order, codes: codes}, nil
}

// ThreeScaler returns the standard sentiment scaler:
// no-label=0, positive=1, negative=2.
func ThreeScaler() Scaler {
	s, err := NewScaler(None, Positive, Negative)
	if err != nil {
		panic(err) // static label set, cannot fail
	}
	return s
}

// SingleScaler returns a scaler over the no-label placeholder only,
// used when serializing inference-only samples.
func SingleScaler() Scaler {
	s, err := NewScaler(None)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *orderedScaler) LabelsCount() int { return len(s.order) }

func (s *orderedScaler) ToInt(l Label) (int, error) {
	code, ok := s.codes[l]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
	}
	return code, nil
}

func (s *orderedScaler) ToLabel(code int) (Label, error) {
	if code < 0 || code >= len(s.order) {
		return None, fmt.Errorf("label code %d out of range [0, %d)", code, len(s.order))
	}
	return s.order[code], nil
}

func (s *orderedScaler) Labels() []Label {
	out := make([]Label, len(s.order))
	copy(out, s.order)
	return out
}

// Decode selects the label whose code is the argmax of the score vector.
// Ties resolve to the lowest code so decoding is deterministic.
func Decode(s Scaler, scores []float32) (Label, error) {
	if len(scores) != s.LabelsCount() {
		return None, fmt.Errorf("%w: got %d, want %d", ErrScoreLength, len(scores), s.LabelsCount())
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return s.ToLabel(best)
}

// Tags maps labels to the short codes used by external renderers.
type Tags map[Label]string

// DefaultTags is the conventional tag mapping for sentiment relations.
func DefaultTags() Tags {
	return Tags{Positive: "POS", Negative: "NEG"}
}

// Tag returns the short code for a label. The no-label placeholder has
// no tag.
func (t Tags) Tag(l Label) (string, bool) {
	tag, ok := t[l]
	return tag, ok
}
