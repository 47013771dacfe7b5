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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/brat"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/inference"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/samplesio"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// lexiconDetector recognizes a fixed set of country names.
func lexiconDetector() entity.Detector {
	return entity.NewDictionaryDetector(entity.Lexicon{
		"GPE": {"USA", "Russia", "France"},
	})
}

// negativePredictor labels every pair negative.
type negativePredictor struct{}

func (negativePredictor) Configure(inference.Config) error { return nil }
func (negativePredictor) Bind(inference.Artifacts) error   { return nil }
func (negativePredictor) Close() error                     { return nil }
func (negativePredictor) Predict(_ context.Context, mb inference.Minibatch) ([][]float32, error) {
	out := make([][]float32, len(mb.Rows()))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.7}
	}
	return out, nil
}

// memResultWriter keeps written results for assertions.
type memResultWriter struct {
	target  string
	results []inference.PredictionResult
}

func (m *memResultWriter) SetTarget(path string) error { m.target = path; return nil }
func (m *memResultWriter) Write(res inference.PredictionResult) error {
	m.results = append(m.results, res)
	return nil
}
func (m *memResultWriter) Close() error { return nil }

func writeArtifacts(t *testing.T) (vocabPath, embeddingPath string) {
	t.Helper()
	dir := t.TempDir()

	vocabPath = filepath.Join(dir, "vocab.txt")
	require.NoError(t, os.WriteFile(vocabPath, []byte("[UNK]\n[CLS]\n[SEP]\nusa\nrussia\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, embeddings.WriteTable(&buf, [][]float32{
		{0, 0}, {0.1, 0.2}, {0.3, 0.4}, {1, 0}, {0, 1},
	}))
	embeddingPath = filepath.Join(dir, "embedding.bin")
	require.NoError(t, os.WriteFile(embeddingPath, buf.Bytes(), 0o644))
	return vocabPath, embeddingPath
}

func testDeps(t *testing.T, cfg Config) (Deps, *memResultWriter) {
	t.Helper()
	encoder, err := sampling.NewEncoder(sampling.EncoderConfig{
		TermsPerContext: cfg.TermsPerContext,
		Formatter:       sampling.SharpPrefixedFormatter(),
		TextB:           cfg.TextB,
	}, nil)
	require.NoError(t, err)

	exporter, err := brat.NewExporter(brat.DefaultConfig())
	require.NoError(t, err)

	writer := &memResultWriter{}
	return Deps{
		Extractor: entity.NewExtractor(lexiconDetector(), entity.KeepAll(), nil),
		Generator: pairs.NewGenerator(pairs.Config{
			TermsBound:     cfg.DistanceTermsBound,
			SentencesBound: cfg.DistanceSentencesBound,
			Policy:         pairs.ConstantLabel(labels.None),
		}, nil),
		Encoder:   encoder,
		Store:     samplesio.NewMemStore(),
		Predictor: negativePredictor{},
		Scaler:    labels.ThreeScaler(),
		Writer:    writer,
		Exporter:  exporter,
	}, writer
}

func testRunConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EmbeddingDim = 2
	cfg.VocabPath, cfg.EmbeddingPath = writeArtifacts(t)
	cfg.PredictPath = filepath.Join(t.TempDir(), "predict.tsv.gz")
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	cfg := testRunConfig(t)
	deps, writer := testDeps(t, cfg)
	p, err := New(cfg, deps)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), []string{
		"USA criticized Russia yesterday.",
		"France stayed silent.",
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.State.RunID)
	require.Equal(t, folding.Test, result.State.TargetSplit)
	require.Equal(t, "mem://sample-test", result.State.SamplesPath)
	require.Equal(t, cfg.PredictPath, result.State.PredictPath)

	// Document 0 yields one USA->Russia pair; document 1 has a single
	// entity and no pairs.
	require.Len(t, result.Predictions, 1)
	for _, pred := range result.Predictions {
		require.Equal(t, labels.Negative, pred.Label)
	}

	require.Len(t, result.Relations[0], 1)
	require.Empty(t, result.Relations[1])

	require.Equal(t, cfg.PredictPath, writer.target)
	require.Equal(t, result.Predictions, writer.results)
}

func TestPipelineSkipsPairsWiderThanWindow(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.TermsPerContext = 2
	deps, writer := testDeps(t, cfg)
	p, err := New(cfg, deps)
	require.NoError(t, err)

	// The USA->Russia pair spans three terms; a two-term window cannot
	// render both, so the pair is dropped instead of failing the run.
	result, err := p.Run(context.Background(), []string{"USA criticized Russia."})
	require.NoError(t, err)
	require.Empty(t, result.Predictions)
	require.Empty(t, result.Relations[0])
	require.Empty(t, writer.results)
}

func TestPipelineRowIDsAreStableAcrossRuns(t *testing.T) {
	cfg := testRunConfig(t)
	texts := []string{"USA criticized Russia."}

	runIDs := func() []string {
		deps, writer := testDeps(t, cfg)
		p, err := New(cfg, deps)
		require.NoError(t, err)
		_, err = p.Run(context.Background(), texts)
		require.NoError(t, err)

		ids := make([]string, len(writer.results))
		for i, res := range writer.results {
			ids[i] = res.RowID
		}
		return ids
	}

	first := runIDs()
	require.NotEmpty(t, first)
	require.Equal(t, first, runIDs())
}

func TestPipelineExportsBratFiles(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.OutputDir = t.TempDir()
	deps, _ := testDeps(t, cfg)
	p, err := New(cfg, deps)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{"USA criticized Russia."})
	require.NoError(t, err)

	collection, err := os.ReadFile(filepath.Join(cfg.OutputDir, "doc-0.collection.json"))
	require.NoError(t, err)
	require.Contains(t, string(collection), "GPE")

	annotation, err := os.ReadFile(filepath.Join(cfg.OutputDir, "doc-0.annotation.json"))
	require.NoError(t, err)
	require.Contains(t, string(annotation), "USA criticized Russia.")
}

func TestPipelineTextBTemplate(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.TextB = sampling.TemplateQA
	deps, _ := testDeps(t, cfg)
	store := deps.Store
	p, err := New(cfg, deps)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{"USA criticized Russia."})
	require.NoError(t, err)

	rows, err := store.Read(context.Background(), folding.Test)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, row := range rows {
		require.True(t, strings.HasPrefix(row.TextB, "What is the attitude of "))
	}
}

func TestNewRejectsMissingDeps(t *testing.T) {
	cfg := testRunConfig(t)
	deps, _ := testDeps(t, cfg)
	deps.Predictor = nil
	_, err := New(cfg, deps)
	require.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.BagSize = 0
	deps, _ := testDeps(t, cfg)
	_, err := New(cfg, deps)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"terms per context", func(c *Config) { c.TermsPerContext = 0 }},
		{"bag size", func(c *Config) { c.BagSize = 0 }},
		{"bags per minibatch", func(c *Config) { c.BagsPerMinibatch = 0 }},
		{"terms bound", func(c *Config) { c.DistanceTermsBound = -2 }},
		{"sentences bound", func(c *Config) { c.DistanceSentencesBound = -1 }},
		{"sequence length", func(c *Config) { c.MaxSequenceLength = 0 }},
		{"target split", func(c *Config) { c.TargetSplit = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestStateRequireAccessors(t *testing.T) {
	st := NewState(folding.NewNoFolding([]int{0}, folding.Test), folding.Test)
	require.NotEmpty(t, st.RunID)

	fold, err := st.RequireFolding()
	require.NoError(t, err)
	require.NotNil(t, fold)

	_, err = st.RequireSamplesPath()
	require.ErrorIs(t, err, ErrStateUnset)
	_, err = st.RequirePredictPath()
	require.ErrorIs(t, err, ErrStateUnset)

	st.SamplesPath = "mem://sample-test"
	path, err := st.RequireSamplesPath()
	require.NoError(t, err)
	require.Equal(t, "mem://sample-test", path)
}
