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

// Package bert binds the loaded vocabulary into a BERT WordPiece
// tokenizer used to turn encoded rows into model input ids.
package bert

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/decoder"
	"github.com/sugarme/tokenizer/model"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
	"github.com/sugarme/tokenizer/processor"
	"github.com/sugarme/tokenizer/util"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
)

// Encoded is a tokenized row ready for the predictor.
type Encoded struct {
	IDs           []int
	TypeIDs       []int
	AttentionMask []int
}

// WordPiece wraps a BERT WordPiece tokenizer bound to a run vocabulary.
type WordPiece struct {
	tk     *tokenizer.Tokenizer
	maxLen int
}

// NewWordPiece builds the tokenizer from the vocabulary. doLowercase
// controls BERT normalizer lowercasing; maxSequenceLength truncates
// encoded pairs (longest-first).
func NewWordPiece(vocab *embeddings.Vocab, doLowercase bool, maxSequenceLength int) (*WordPiece, error) {
	if maxSequenceLength < 1 {
		return nil, fmt.Errorf("max sequence length must be at least 1, got %d", maxSequenceLength)
	}

	wpVocab := make(model.Vocab, vocab.Size())
	for term, id := range vocab.Terms() {
		wpVocab[term] = id
	}

	opts := util.NewParams(map[string]any{
		"unk_token": "[UNK]",
	})
	wp, err := wordpiece.New(wpVocab, opts)
	if err != nil {
		return nil, fmt.Errorf("creating wordpiece model: %w", err)
	}

	tk := tokenizer.NewTokenizer(wp)
	tk.WithNormalizer(normalizer.NewBertNormalizer(true, doLowercase, true, doLowercase))
	tk.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	sepID, ok := tk.TokenToId("[SEP]")
	if !ok {
		return nil, fmt.Errorf("vocabulary has no [SEP] token")
	}
	clsID, ok := tk.TokenToId("[CLS]")
	if !ok {
		return nil, fmt.Errorf("vocabulary has no [CLS] token")
	}
	tk.WithPostProcessor(processor.NewBertProcessing(
		processor.PostToken{Id: sepID, Value: "[SEP]"},
		processor.PostToken{Id: clsID, Value: "[CLS]"},
	))

	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken("[SEP]", true)})
	tk.AddSpecialTokens([]tokenizer.AddedToken{tokenizer.NewAddedToken("[CLS]", true)})

	tk.WithTruncation(&tokenizer.TruncationParams{
		MaxLength: maxSequenceLength,
		Strategy:  tokenizer.LongestFirst,
	})
	tk.WithDecoder(decoder.DefaultWordpieceDecoder())

	return &WordPiece{tk: tk, maxLen: maxSequenceLength}, nil
}

// Encode tokenizes a row's text views. An empty textB yields a
// single-sequence encoding.
func (w *WordPiece) Encode(textA, textB string) (enc Encoded, err error) {
	// The underlying library panics on some malformed inputs
	// (BertNormalizer.TransformRange bounds bug); surface as an error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()

	var encoding *tokenizer.Encoding
	if textB == "" {
		encoding, err = w.tk.EncodeSingle(textA, true)
	} else {
		encoding, err = w.tk.EncodePair(textA, textB, true)
	}
	if err != nil {
		return Encoded{}, fmt.Errorf("encoding row text: %w", err)
	}

	return Encoded{
		IDs:           encoding.Ids,
		TypeIDs:       encoding.TypeIds,
		AttentionMask: encoding.AttentionMask,
	}, nil
}

// MaxSequenceLength returns the configured truncation length.
func (w *WordPiece) MaxSequenceLength() int { return w.maxLen }
