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

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
)

// ErrStateUnset is returned when a stage reads a run-state field before
// an earlier stage has written it.
var ErrStateUnset = errors.New("pipeline state field not set")

// State is the explicit run state threaded between pipeline stages.
// Every field a stage may read or write is named here, so write-before-
// read ordering is checkable instead of hidden behind an untyped
// key/value store. A State is created fresh per pipeline invocation and
// discarded at the end; it must not be shared across concurrent runs.
type State struct {
	// RunID uniquely names this pipeline invocation.
	RunID string

	// Folding assigns documents to splits; written by the assembler.
	Folding folding.Folding

	// TargetSplit is the split this run materializes and predicts.
	TargetSplit folding.Split

	// SamplesPath is the sample store target for TargetSplit; written
	// by the serialization stage.
	SamplesPath string

	// PredictPath is the result sink target; defaulted next to the
	// samples file when the assembler leaves it empty.
	PredictPath string
}

// NewState creates a run state with a fresh ULID run id.
func NewState(f folding.Folding, target folding.Split) *State {
	return &State{
		RunID:       ulid.Make().String(),
		Folding:     f,
		TargetSplit: target,
	}
}

// RequireFolding returns the folding or fails if no stage set it.
func (s *State) RequireFolding() (folding.Folding, error) {
	if s.Folding == nil {
		return nil, fmt.Errorf("%w: folding", ErrStateUnset)
	}
	return s.Folding, nil
}

// RequireSamplesPath returns the samples target or fails if the
// serialization stage has not run.
func (s *State) RequireSamplesPath() (string, error) {
	if s.SamplesPath == "" {
		return "", fmt.Errorf("%w: samples path", ErrStateUnset)
	}
	return s.SamplesPath, nil
}

// RequirePredictPath returns the result target or fails if unset.
func (s *State) RequirePredictPath() (string, error) {
	if s.PredictPath == "" {
		return "", fmt.Errorf("%w: predict path", ErrStateUnset)
	}
	return s.PredictPath, nil
}
