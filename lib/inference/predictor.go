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

// Package inference batches encoded rows and drives a black-box
// predictor, decoding score vectors back to labeled rows.
package inference

import (
	"context"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
)

// Config carries the model topology parameters bound into the predictor.
type Config struct {
	// LabelsCount is the label cardinality; must match the scaler.
	LabelsCount int
	// BagSize is the target number of rows per bag.
	BagSize int
	// BagsPerMinibatch is the number of bags per predictor invocation.
	BagsPerMinibatch int
	// EmbeddingDim is the expected term-embedding dimensionality.
	EmbeddingDim int
	// MaxSequenceLength truncates tokenized rows.
	MaxSequenceLength int
	// DoLowercase controls tokenizer lowercasing.
	DoLowercase bool
}

// Artifacts are the pretrained resources bound into the predictor
// before prediction.
type Artifacts struct {
	Vocab      *embeddings.Vocab
	Embeddings *embeddings.Table
}

// Predictor is the narrow interface any concrete model implements. The
// orchestrator never assumes anything about weights or architecture.
//
// Lifecycle: Configure once, Bind once, then Predict per minibatch.
type Predictor interface {
	// Configure receives the model topology parameters.
	Configure(cfg Config) error

	// Bind attaches the loaded vocabulary and embedding table.
	Bind(a Artifacts) error

	// Predict returns one score vector per row of the minibatch, in
	// row order. Each vector has LabelsCount entries.
	Predict(ctx context.Context, mb Minibatch) ([][]float32, error)

	// Close releases model resources.
	Close() error
}

// PredictionResult is the decoded outcome for one row.
type PredictionResult struct {
	// RowID joins the result back to its row.
	RowID string
	// Scores is the raw score vector, one entry per label code.
	Scores []float32
	// Label is the argmax-decoded label.
	Label labels.Label
}
