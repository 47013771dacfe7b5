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

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Config is the pipeline configuration surface.
type Config struct {
	// TermsPerContext caps the terms rendered into each row's textA.
	TermsPerContext int `mapstructure:"terms_per_context"`

	// BagSize is the target rows per bag.
	BagSize int `mapstructure:"bag_size"`

	// BagsPerMinibatch is the bags per predictor invocation.
	BagsPerMinibatch int `mapstructure:"bags_per_minibatch"`

	// DistanceTermsBound excludes pairs with a larger term gap;
	// pairs.UnboundedTerms disables the check.
	DistanceTermsBound int `mapstructure:"distance_terms_bound"`

	// DistanceSentencesBound is the required sentence gap between
	// paired entities; 0 keeps same-sentence pairs only.
	DistanceSentencesBound int `mapstructure:"distance_sentences_bound"`

	// DoLowercase controls tokenizer lowercasing.
	DoLowercase bool `mapstructure:"do_lowercase"`

	// MaxSequenceLength truncates tokenized rows.
	MaxSequenceLength int `mapstructure:"max_sequence_length"`

	// EmbeddingDim is the expected term-embedding dimensionality
	// (0 = accept whatever the artifact declares).
	EmbeddingDim int `mapstructure:"embedding_dim"`

	// TargetSplit is the split materialized and predicted; inference
	// runs use Test.
	TargetSplit folding.Split `mapstructure:"target_split"`

	// TextB selects the optional second text view template.
	TextB sampling.TextBTemplate `mapstructure:"text_b_template"`

	// VocabPath locates the pretrained vocabulary artifact.
	VocabPath string `mapstructure:"vocab_path"`

	// EmbeddingPath locates the pretrained embedding table artifact.
	EmbeddingPath string `mapstructure:"embedding_path"`

	// OutputDir receives visualization exports.
	OutputDir string `mapstructure:"output_dir"`

	// PredictPath overrides the result sink target; empty derives
	// "predict.tsv.gz" next to the samples file.
	PredictPath string `mapstructure:"predict_path"`
}

// DefaultConfig mirrors the conventional inference-run settings.
func DefaultConfig() Config {
	return Config{
		TermsPerContext:        50,
		BagSize:                1,
		BagsPerMinibatch:       32,
		DistanceTermsBound:     pairs.UnboundedTerms,
		DistanceSentencesBound: 0,
		MaxSequenceLength:      128,
		TargetSplit:            folding.Test,
	}
}

// Validate rejects configurations that cannot produce a run.
func (c Config) Validate() error {
	if c.TermsPerContext < 1 {
		return errors.New("terms_per_context must be at least 1")
	}
	if c.BagSize < 1 {
		return errors.New("bag_size must be at least 1")
	}
	if c.BagsPerMinibatch < 1 {
		return errors.New("bags_per_minibatch must be at least 1")
	}
	if c.DistanceTermsBound != pairs.UnboundedTerms && c.DistanceTermsBound < 0 {
		return fmt.Errorf("distance_terms_bound must be non-negative or unbounded, got %d", c.DistanceTermsBound)
	}
	if c.DistanceSentencesBound < 0 {
		return fmt.Errorf("distance_sentences_bound must be non-negative, got %d", c.DistanceSentencesBound)
	}
	if c.MaxSequenceLength < 1 {
		return errors.New("max_sequence_length must be at least 1")
	}
	if c.TargetSplit == "" {
		return errors.New("target_split is required")
	}
	return nil
}
