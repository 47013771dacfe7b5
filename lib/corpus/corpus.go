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

// Package corpus models input documents as ordered sentences of terms.
// Entity bounds and context windows are expressed over the flattened
// term sequence of a document.
package corpus

import (
	"fmt"
	"regexp"
	"strings"
)

// Document is an input text split into sentences of whitespace terms.
type Document struct {
	// ID identifies the document within the working set.
	ID int
	// Sentences holds the ordered term sequences, one per sentence.
	Sentences [][]string

	terms     []string
	sentOf    []int
	sentStart []int
}

var sentenceEnd = regexp.MustCompile(`([.!?]+)(\s+|$)`)

// SplitSentences splits raw text into sentence strings on terminal
// punctuation followed by whitespace. Empty sentences are dropped.
func SplitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\n")
	var out []string
	for _, s := range strings.Split(marked, "\n") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewDocument builds a document from raw text: sentence splitting
// followed by whitespace term splitting.
func NewDocument(id int, text string) *Document {
	sentences := SplitSentences(text)
	terms := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		fields := strings.Fields(s)
		if len(fields) > 0 {
			terms = append(terms, fields)
		}
	}
	return NewDocumentFromTerms(id, terms)
}

// NewDocumentFromTerms builds a document from already-split sentences.
func NewDocumentFromTerms(id int, sentences [][]string) *Document {
	d := &Document{ID: id, Sentences: sentences}
	for si, sent := range sentences {
		d.sentStart = append(d.sentStart, len(d.terms))
		for range sent {
			d.sentOf = append(d.sentOf, si)
		}
		d.terms = append(d.terms, sent...)
	}
	return d
}

// InputToDocs wraps raw texts into documents with sequential ids.
func InputToDocs(texts []string) []*Document {
	docs := make([]*Document, len(texts))
	for i, t := range texts {
		docs[i] = NewDocument(i, t)
	}
	return docs
}

// Terms returns the flattened term sequence across all sentences.
// The returned slice is shared and must not be mutated.
func (d *Document) Terms() []string { return d.terms }

// TermCount returns the number of terms in the flattened sequence.
func (d *Document) TermCount() int { return len(d.terms) }

// SentenceOf returns the sentence index holding the given flat term index.
func (d *Document) SentenceOf(termIndex int) (int, error) {
	if termIndex < 0 || termIndex >= len(d.sentOf) {
		return 0, fmt.Errorf("term index %d out of range [0, %d)", termIndex, len(d.sentOf))
	}
	return d.sentOf[termIndex], nil
}

// SentenceStart returns the flat index of the first term of a sentence.
func (d *Document) SentenceStart(sentence int) (int, error) {
	if sentence < 0 || sentence >= len(d.sentStart) {
		return 0, fmt.Errorf("sentence index %d out of range [0, %d)", sentence, len(d.sentStart))
	}
	return d.sentStart[sentence], nil
}

// Text reconstructs the document as a single space-joined string.
// Term character offsets in the result are stable, see TermOffsets.
func (d *Document) Text() string {
	return strings.Join(d.terms, " ")
}

// TermOffsets returns the character offset of every term within Text().
func (d *Document) TermOffsets() []int {
	offsets := make([]int, len(d.terms))
	pos := 0
	for i, t := range d.terms {
		offsets[i] = pos
		pos += len(t) + 1
	}
	return offsets
}
