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

package entity

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ensure DictionaryDetector implements the Detector interface
var _ Detector = (*DictionaryDetector)(nil)

// Lexicon maps entity types to known surface phrases.
type Lexicon map[string][]string

// LoadLexicon reads a YAML lexicon file: type -> list of phrases.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon %s: %w", path, err)
	}
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	return lex, nil
}

type lexiconEntry struct {
	terms      []string
	objectType string
}

// DictionaryDetector matches known phrases against term sequences,
// longest match first. It serves offline runs where no model-backed
// detector is reachable.
type DictionaryDetector struct {
	entries []lexiconEntry
	maxLen  int
}

// NewDictionaryDetector compiles a lexicon for matching. Matching is
// case-insensitive on whole terms.
func NewDictionaryDetector(lex Lexicon) *DictionaryDetector {
	d := &DictionaryDetector{}
	for objectType, phrases := range lex {
		for _, phrase := range phrases {
			terms := strings.Fields(strings.ToLower(phrase))
			if len(terms) == 0 {
				continue
			}
			d.entries = append(d.entries, lexiconEntry{terms: terms, objectType: objectType})
			if len(terms) > d.maxLen {
				d.maxLen = len(terms)
			}
		}
	}
	return d
}

func (d *DictionaryDetector) Extract(_ context.Context, sequences [][]string) ([][]Detection, error) {
	out := make([][]Detection, len(sequences))
	for i, terms := range sequences {
		lowered := make([]string, len(terms))
		for j, t := range terms {
			lowered[j] = strings.ToLower(strings.Trim(t, ".,;:!?()\"'"))
		}
		for pos := 0; pos < len(lowered); {
			match, ok := d.matchAt(lowered, pos)
			if !ok {
				pos++
				continue
			}
			out[i] = append(out[i], Detection{
				Position:   pos,
				Length:     len(match.terms),
				ObjectType: match.objectType,
			})
			pos += len(match.terms)
		}
	}
	return out, nil
}

// matchAt returns the longest lexicon entry starting at pos.
func (d *DictionaryDetector) matchAt(terms []string, pos int) (lexiconEntry, bool) {
	var best lexiconEntry
	found := false
	for _, e := range d.entries {
		if len(e.terms) > len(terms)-pos {
			continue
		}
		if found && len(e.terms) <= len(best.terms) {
			continue
		}
		matched := true
		for k, want := range e.terms {
			if terms[pos+k] != want {
				matched = false
				break
			}
		}
		if matched {
			best = e
			found = true
		}
	}
	return best, found
}

func (d *DictionaryDetector) Close() error { return nil }
