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

package corpus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"two sentences",
			"USA criticized Russia. Q3 negotiations stalled.",
			[]string{"USA criticized Russia.", "Q3 negotiations stalled."},
		},
		{
			"exclamation and question marks",
			"Really! Are you sure? Yes.",
			[]string{"Really!", "Are you sure?", "Yes."},
		},
		{
			"no terminal punctuation",
			"one single sentence without a period",
			[]string{"one single sentence without a period"},
		},
		{
			"repeated punctuation",
			"What?! Next sentence.",
			[]string{"What?!", "Next sentence."},
		},
		{"empty", "", nil},
		{"whitespace only", "   \t  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestNewDocumentFlattening(t *testing.T) {
	d := NewDocument(7, "USA criticized Russia. Talks stalled.")

	require.Equal(t, 7, d.ID)
	require.Len(t, d.Sentences, 2)
	require.Equal(t, []string{"USA", "criticized", "Russia.", "Talks", "stalled."}, d.Terms())
	require.Equal(t, 5, d.TermCount())
}

func TestSentenceOf(t *testing.T) {
	d := NewDocumentFromTerms(0, [][]string{
		{"a", "b", "c"},
		{"d"},
		{"e", "f"},
	})

	for termIndex, wantSentence := range []int{0, 0, 0, 1, 2, 2} {
		got, err := d.SentenceOf(termIndex)
		require.NoError(t, err)
		require.Equal(t, wantSentence, got, "term %d", termIndex)
	}

	_, err := d.SentenceOf(-1)
	require.Error(t, err)
	_, err = d.SentenceOf(6)
	require.Error(t, err)
}

func TestSentenceStart(t *testing.T) {
	d := NewDocumentFromTerms(0, [][]string{
		{"a", "b"},
		{"c", "d", "e"},
		{"f"},
	})

	for sentence, want := range []int{0, 2, 5} {
		got, err := d.SentenceStart(sentence)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := d.SentenceStart(3)
	require.Error(t, err)
}

func TestTextAndTermOffsets(t *testing.T) {
	d := NewDocumentFromTerms(0, [][]string{{"alpha", "beta"}, {"gamma"}})

	text := d.Text()
	require.Equal(t, "alpha beta gamma", text)

	offsets := d.TermOffsets()
	require.Equal(t, []int{0, 6, 11}, offsets)
	for i, term := range d.Terms() {
		require.Equal(t, term, text[offsets[i]:offsets[i]+len(term)])
	}
}

func TestInputToDocs(t *testing.T) {
	docs := InputToDocs([]string{"First text.", "Second text."})
	require.Len(t, docs, 2)
	require.Equal(t, 0, docs[0].ID)
	require.Equal(t, 1, docs[1].ID)
	require.Equal(t, []string{"First", "text."}, docs[0].Terms())
}
