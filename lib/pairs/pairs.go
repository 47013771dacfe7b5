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

// Package pairs enumerates candidate entity pairs within distance
// bounds. Pairs are transient: generated fresh per document and consumed
// by the sample encoder.
package pairs

import (
	"fmt"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
)

// UnboundedTerms disables term-distance filtering.
const UnboundedTerms = -1

// Pair is a directed candidate relation between two entities of the
// same document.
type Pair struct {
	Source entity.Entity
	Target entity.Entity

	// DistanceTerms is the absolute gap between the two span positions.
	DistanceTerms int
	// DistanceSentences is the number of sentence boundaries between
	// the spans.
	DistanceSentences int

	// Label is the policy-assigned label; labels.None for inference-only
	// runs.
	Label labels.Label
}

// PolicyKind discriminates the label policy strategies.
type PolicyKind int

const (
	// PolicyConstant assigns one fixed label to every pair.
	PolicyConstant PolicyKind = iota
	// PolicyLookup assigns labels from a pre-annotated collection.
	PolicyLookup
)

// LabelPolicy assigns a label to a generated pair.
type LabelPolicy struct {
	kind     PolicyKind
	constant labels.Label
	lookup   map[string]labels.Label
	fallback labels.Label
}

// ConstantLabel returns a policy assigning l to every pair. Inference
// runs use ConstantLabel(labels.None).
func ConstantLabel(l labels.Label) LabelPolicy {
	return LabelPolicy{kind: PolicyConstant, constant: l}
}

// LookupKey identifies a candidate pair inside an annotated collection.
func LookupKey(docID int, source, target entity.Entity) string {
	return fmt.Sprintf("%d|%s|%s", docID, source.Bound, target.Bound)
}

// LookupLabel returns a policy resolving labels from annotations keyed
// by LookupKey, with a fallback for unannotated pairs.
func LookupLabel(annotations map[string]labels.Label, fallback labels.Label) LabelPolicy {
	copied := make(map[string]labels.Label, len(annotations))
	for k, v := range annotations {
		copied[k] = v
	}
	return LabelPolicy{kind: PolicyLookup, lookup: copied, fallback: fallback}
}

// Kind reports the policy strategy.
func (p LabelPolicy) Kind() PolicyKind { return p.kind }

// LabelFor resolves the label of a candidate pair.
func (p LabelPolicy) LabelFor(docID int, source, target entity.Entity) labels.Label {
	switch p.kind {
	case PolicyLookup:
		if l, ok := p.lookup[LookupKey(docID, source, target)]; ok {
			return l
		}
		return p.fallback
	default:
		return p.constant
	}
}

// Config bounds pair generation.
type Config struct {
	// TermsBound excludes pairs whose term-index gap exceeds it.
	// UnboundedTerms disables the check; a gap equal to the bound is
	// still included.
	TermsBound int

	// SentencesBound is the required number of sentence boundaries
	// between the two entities. 0 keeps same-sentence pairs only.
	SentencesBound int

	// Policy assigns each pair its label.
	Policy LabelPolicy
}

// Generator enumerates candidate pairs for one document at a time.
type Generator struct {
	cfg Config
	syn interface {
		RegisterOrGet(value string) (int, error)
	}
}

// NewGenerator builds a generator. The synonyms collection is optional;
// when present, pairs whose entities share a synonym group are skipped.
func NewGenerator(cfg Config, syn interface {
	RegisterOrGet(value string) (int, error)
}) *Generator {
	return &Generator{cfg: cfg, syn: syn}
}

// Generate emits one directed pair per unordered candidate: the
// earlier-positioned entity becomes the source. Candidates are walked in
// entity slice order so downstream row ids are reproducible across runs.
func (g *Generator) Generate(doc *corpus.Document, entities []entity.Entity) ([]Pair, error) {
	var out []Pair
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			src, tgt := entities[i], entities[j]
			if tgt.Bound.Position < src.Bound.Position {
				src, tgt = tgt, src
			}

			gap := tgt.Bound.Position - src.Bound.Position
			if g.cfg.TermsBound != UnboundedTerms && gap > g.cfg.TermsBound {
				continue
			}

			srcSent, err := doc.SentenceOf(src.Bound.Position)
			if err != nil {
				return nil, fmt.Errorf("locating source entity: %w", err)
			}
			tgtSent, err := doc.SentenceOf(tgt.Bound.Position)
			if err != nil {
				return nil, fmt.Errorf("locating target entity: %w", err)
			}
			sentGap := srcSent - tgtSent
			if sentGap < 0 {
				sentGap = -sentGap
			}
			if sentGap != g.cfg.SentencesBound {
				continue
			}

			if g.syn != nil {
				srcGroup, err := g.syn.RegisterOrGet(src.Value)
				if err != nil {
					return nil, fmt.Errorf("grouping source value: %w", err)
				}
				tgtGroup, err := g.syn.RegisterOrGet(tgt.Value)
				if err != nil {
					return nil, fmt.Errorf("grouping target value: %w", err)
				}
				// Same synonym group means the same object; not a pair.
				if srcGroup == tgtGroup {
					continue
				}
			}

			out = append(out, Pair{
				Source:            src,
				Target:            tgt,
				DistanceTerms:     gap,
				DistanceSentences: sentGap,
				Label:             g.cfg.Policy.LabelFor(doc.ID, src, tgt),
			})
		}
	}
	return out, nil
}
