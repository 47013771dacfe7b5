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

// Package arelight assembles the relation-extraction inference pipeline:
// entity extraction, pair generation, sample encoding, batched
// prediction, and optional visualization export.
package arelight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/brat"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/inference"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/samplesio"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Pipeline runs one document set through serialization, inference, and
// export. Stages execute sequentially; exactly one run may be active on
// a Pipeline at a time.
type Pipeline struct {
	cfg       Config
	extractor *entity.Extractor
	generator *pairs.Generator
	encoder   *sampling.Encoder
	store     samplesio.Store
	predictor inference.Predictor
	scaler    labels.Scaler
	writer    inference.ResultWriter
	exporter  *brat.Exporter
	logger    *zap.Logger
}

// Deps are the pipeline's stage collaborators. Exporter is optional;
// nil disables the visualization export.
type Deps struct {
	Extractor *entity.Extractor
	Generator *pairs.Generator
	Encoder   *sampling.Encoder
	Store     samplesio.Store
	Predictor inference.Predictor
	Scaler    labels.Scaler
	Writer    inference.ResultWriter
	Exporter  *brat.Exporter
	Logger    *zap.Logger
}

// New validates the configuration and assembles a pipeline.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if deps.Extractor == nil || deps.Generator == nil || deps.Encoder == nil ||
		deps.Store == nil || deps.Predictor == nil || deps.Scaler == nil || deps.Writer == nil {
		return nil, fmt.Errorf("pipeline requires extractor, generator, encoder, store, predictor, scaler, and writer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: deps.Extractor,
		generator: deps.Generator,
		encoder:   deps.Encoder,
		store:     deps.Store,
		predictor: deps.Predictor,
		scaler:    deps.Scaler,
		writer:    deps.Writer,
		exporter:  deps.Exporter,
		logger:    logger.Named("pipeline"),
	}, nil
}

// RunResult carries everything one run produced.
type RunResult struct {
	// State is the final run state.
	State *State
	// Predictions holds the decoded results in row order.
	Predictions []inference.PredictionResult
	// Relations maps document ids to their decoded pair results.
	Relations map[int][]brat.PairResult
}

// Run processes the texts end to end: every document maps to the target
// split (no-folding mode), rows are materialized, predicted, and the
// results written. A fatal error aborts the run with no result commit.
func (p *Pipeline) Run(ctx context.Context, texts []string) (*RunResult, error) {
	start := time.Now()
	split := p.cfg.TargetSplit

	docs := corpus.InputToDocs(texts)
	docIDs := make([]int, len(docs))
	byID := make(map[int]*corpus.Document, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
		byID[d.ID] = d
	}

	st := NewState(folding.NewNoFolding(docIDs, split), split)
	p.logger.Info("Starting pipeline run",
		zap.String("run_id", st.RunID),
		zap.String("split", string(split)),
		zap.Int("documents", len(docs)))

	fold, err := st.RequireFolding()
	if err != nil {
		return nil, err
	}

	// Serialization stage: extract, pair, encode, persist.
	type rowOrigin struct {
		docID int
		pair  pairs.Pair
	}
	origins := make(map[string]rowOrigin)
	var rows []sampling.Row

	for _, docID := range fold.DocIDs(split) {
		doc := byID[docID]
		entities, err := p.extractor.Extract(ctx, doc.Terms())
		if err != nil {
			return nil, fmt.Errorf("extracting document %d: %w", docID, err)
		}
		entityExtractionOps.WithLabelValues(string(split)).Add(float64(len(entities)))

		docPairs, err := p.generator.Generate(doc, entities)
		if err != nil {
			return nil, fmt.Errorf("pairing document %d: %w", docID, err)
		}
		pairGenerationOps.WithLabelValues(string(split)).Add(float64(len(docPairs)))

		for _, pr := range docPairs {
			row, err := p.encoder.Encode(pr, doc, split)
			if errors.Is(err, sampling.ErrPairExceedsWindow) {
				p.logger.Debug("Skipping pair wider than context window",
					zap.Int("document_id", docID),
					zap.String("source", pr.Source.Bound.String()),
					zap.String("target", pr.Target.Bound.String()))
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("encoding document %d: %w", docID, err)
			}
			rows = append(rows, row)
			origins[row.ID] = rowOrigin{docID: docID, pair: pr}
		}
	}
	rowEncodingOps.WithLabelValues(string(split)).Add(float64(len(rows)))

	if err := p.store.Write(ctx, split, rows); err != nil {
		return nil, fmt.Errorf("writing samples: %w", err)
	}
	st.SamplesPath = p.store.Target(split)

	// Result target defaults next to the samples file.
	st.PredictPath = p.cfg.PredictPath
	if st.PredictPath == "" {
		st.PredictPath = filepath.Join(filepath.Dir(st.SamplesPath), "predict.tsv.gz")
	}

	// Inference stage.
	orch := inference.NewOrchestrator(p.predictor, p.scaler, p.store, p.writer, p.logger.Named("inference"))
	if err := orch.Configure(inference.Config{
		LabelsCount:       p.scaler.LabelsCount(),
		BagSize:           p.cfg.BagSize,
		BagsPerMinibatch:  p.cfg.BagsPerMinibatch,
		EmbeddingDim:      p.cfg.EmbeddingDim,
		MaxSequenceLength: p.cfg.MaxSequenceLength,
		DoLowercase:       p.cfg.DoLowercase,
	}, split); err != nil {
		return nil, err
	}

	samplesPath, err := st.RequireSamplesPath()
	if err != nil {
		return nil, err
	}
	if err := orch.Load(ctx, samplesPath, p.cfg.VocabPath, p.cfg.EmbeddingPath); err != nil {
		return nil, err
	}

	predictPath, err := st.RequirePredictPath()
	if err != nil {
		return nil, err
	}
	predictions, err := orch.Run(ctx, predictPath)
	if err != nil {
		return nil, err
	}
	predictionOps.WithLabelValues(string(split)).Add(float64(len(predictions)))

	// Join predictions back to pairs per document.
	relations := make(map[int][]brat.PairResult)
	for _, pred := range predictions {
		origin, ok := origins[pred.RowID]
		if !ok {
			return nil, fmt.Errorf("prediction for unknown row %s", pred.RowID)
		}
		relations[origin.docID] = append(relations[origin.docID], brat.PairResult{
			Pair:  origin.pair,
			Label: pred.Label,
		})
	}

	if p.exporter != nil && p.cfg.OutputDir != "" {
		if err := p.export(byID, relations); err != nil {
			return nil, err
		}
	}

	runDuration.WithLabelValues(string(split)).Observe(time.Since(start).Seconds())
	p.logger.Info("Pipeline run complete",
		zap.String("run_id", st.RunID),
		zap.Int("rows", len(rows)),
		zap.Int("predictions", len(predictions)),
		zap.Duration("elapsed", time.Since(start)))

	return &RunResult{State: st, Predictions: predictions, Relations: relations}, nil
}

// export writes brat collection and annotation JSON per document.
func (p *Pipeline) export(docs map[int]*corpus.Document, relations map[int][]brat.PairResult) error {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for docID, results := range relations {
		doc := docs[docID]
		collection, payload, err := p.exporter.Export(doc, results)
		if err != nil {
			return fmt.Errorf("exporting document %d: %w", docID, err)
		}
		if err := writeJSONFile(filepath.Join(p.cfg.OutputDir, fmt.Sprintf("doc-%d.collection.json", docID)), collection); err != nil {
			return err
		}
		if err := writeJSONFile(filepath.Join(p.cfg.OutputDir, fmt.Sprintf("doc-%d.annotation.json", docID)), payload); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONFile(path string, payload any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := brat.WriteJSON(f, payload); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
