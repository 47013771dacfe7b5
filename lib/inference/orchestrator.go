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

package inference

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/samplesio"
)

// State names an orchestrator lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateConfigured
	StateLoaded
	StateWritten
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateLoaded:
		return "loaded"
	case StateWritten:
		return "written"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrBadState is returned when a lifecycle method is called out of
// order.
var ErrBadState = errors.New("orchestrator called in wrong state")

// ErrScalerMismatch is returned when the configured label cardinality
// does not match the scaler. This is a fatal configuration error, never
// a silent truncation.
var ErrScalerMismatch = errors.New("label cardinality does not match scaler")

// ErrTargetMismatch is returned when the samples path supplied by the
// pipeline disagrees with the store's own derivation for the split.
var ErrTargetMismatch = errors.New("samples target derivations disagree")

// ErrScoreShape is returned when the predictor emits the wrong number
// of score vectors for a minibatch.
var ErrScoreShape = errors.New("predictor returned malformed scores")

// Orchestrator drives one inference run: load artifacts, read rows,
// partition into bags, predict minibatch by minibatch, decode, and
// write results in row order.
//
// Lifecycle: Idle -> Configure -> Load -> Run (-> Written) -> Reset.
type Orchestrator struct {
	predictor Predictor
	scaler    labels.Scaler
	store     samplesio.Store
	writer    ResultWriter
	logger    *zap.Logger

	state State
	cfg   Config
	split folding.Split
}

// NewOrchestrator wires the run collaborators. A nil logger disables
// logging.
func NewOrchestrator(predictor Predictor, scaler labels.Scaler, store samplesio.Store, writer ResultWriter, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		predictor: predictor,
		scaler:    scaler,
		store:     store,
		writer:    writer,
		logger:    logger,
		state:     StateIdle,
	}
}

// CurrentState reports the lifecycle stage.
func (o *Orchestrator) CurrentState() State { return o.state }

// Configure validates the topology parameters against the scaler and
// fixes the target split for the run.
func (o *Orchestrator) Configure(cfg Config, split folding.Split) error {
	if o.state != StateIdle {
		return fmt.Errorf("%w: configure in %s", ErrBadState, o.state)
	}
	if cfg.LabelsCount != o.scaler.LabelsCount() {
		return fmt.Errorf("%w: config=%d scaler=%d", ErrScalerMismatch, cfg.LabelsCount, o.scaler.LabelsCount())
	}
	if cfg.BagSize < 1 || cfg.BagsPerMinibatch < 1 {
		return fmt.Errorf("invalid bag configuration: bag_size=%d bags_per_minibatch=%d", cfg.BagSize, cfg.BagsPerMinibatch)
	}
	o.cfg = cfg
	o.split = split
	o.state = StateConfigured

	o.logger.Info("Orchestrator configured",
		zap.String("split", string(split)),
		zap.Int("labels_count", cfg.LabelsCount),
		zap.Int("bag_size", cfg.BagSize),
		zap.Int("bags_per_minibatch", cfg.BagsPerMinibatch))
	return nil
}

// Load resolves the sample target, loads the vocabulary and embedding
// artifacts, and binds everything into the predictor. samplesPath is
// the pipeline's own derivation of the target; both derivations must
// agree. Missing artifacts are fatal, not retryable.
func (o *Orchestrator) Load(ctx context.Context, samplesPath, vocabPath, embeddingPath string) error {
	if o.state != StateConfigured {
		return fmt.Errorf("%w: load in %s", ErrBadState, o.state)
	}
	_ = ctx

	target := o.store.Target(o.split)
	if samplesPath != "" && samplesPath != target {
		return fmt.Errorf("%w: pipeline=%s store=%s", ErrTargetMismatch, samplesPath, target)
	}

	vocab, err := embeddings.LoadVocab(vocabPath)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}
	table, err := embeddings.LoadTable(embeddingPath)
	if err != nil {
		return fmt.Errorf("loading embeddings: %w", err)
	}
	if err := embeddings.CheckAligned(vocab, table); err != nil {
		return err
	}
	if o.cfg.EmbeddingDim > 0 && table.Dim() != o.cfg.EmbeddingDim {
		return fmt.Errorf("embedding dim %d does not match configured %d", table.Dim(), o.cfg.EmbeddingDim)
	}

	if err := o.predictor.Configure(o.cfg); err != nil {
		return fmt.Errorf("configuring predictor: %w", err)
	}
	if err := o.predictor.Bind(Artifacts{Vocab: vocab, Embeddings: table}); err != nil {
		return fmt.Errorf("binding artifacts: %w", err)
	}

	o.state = StateLoaded
	o.logger.Info("Artifacts loaded",
		zap.String("samples", target),
		zap.Int("vocab_size", vocab.Size()),
		zap.Int("embedding_dim", table.Dim()))
	return nil
}

// Run reads the split's rows, predicts bag by bag, decodes labels, and
// writes results to predictTarget in the exact order rows were read.
// Predictor failure aborts the run with no partial result commit.
func (o *Orchestrator) Run(ctx context.Context, predictTarget string) ([]PredictionResult, error) {
	if o.state != StateLoaded {
		return nil, fmt.Errorf("%w: run in %s", ErrBadState, o.state)
	}

	rows, err := o.store.Read(ctx, o.split)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	minibatches, err := Partition(rows, o.cfg.BagSize, o.cfg.BagsPerMinibatch)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Running inference",
		zap.Int("rows", len(rows)),
		zap.Int("minibatches", len(minibatches)))

	results := make([]PredictionResult, 0, len(rows))
	for i, mb := range minibatches {
		mbRows := mb.Rows()
		scores, err := o.predictor.Predict(ctx, mb)
		if err != nil {
			return nil, fmt.Errorf("predicting minibatch %d: %w", i, err)
		}
		if len(scores) != len(mbRows) {
			return nil, fmt.Errorf("%w: minibatch %d has %d rows, got %d vectors",
				ErrScoreShape, i, len(mbRows), len(scores))
		}
		for j, vec := range scores {
			label, err := labels.Decode(o.scaler, vec)
			if err != nil {
				return nil, fmt.Errorf("decoding row %s: %w", mbRows[j].ID, err)
			}
			results = append(results, PredictionResult{
				RowID:  mbRows[j].ID,
				Scores: vec,
				Label:  label,
			})
		}
	}

	if err := o.writer.SetTarget(predictTarget); err != nil {
		return nil, err
	}
	for _, res := range results {
		if err := o.writer.Write(res); err != nil {
			return nil, err
		}
	}
	if err := o.writer.Close(); err != nil {
		return nil, err
	}

	o.state = StateWritten
	o.logger.Info("Results written",
		zap.String("target", predictTarget),
		zap.Int("results", len(results)))
	return results, nil
}

// Reset returns the orchestrator to Idle for the next run.
func (o *Orchestrator) Reset() {
	o.state = StateIdle
	o.cfg = Config{}
	o.split = ""
}
