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

package pairs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/synonyms"
)

func entityAt(value string, position, length int) entity.Entity {
	return entity.Entity{
		Value: value,
		Type:  "ORG",
		Bound: entity.Bound{Position: position, Length: length},
	}
}

func TestGenerateOnePairPerCandidate(t *testing.T) {
	// Two entities five terms apart in one sentence, no bounds: exactly
	// one pair, the earlier entity as the source.
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"IBM", "today", "named", "its", "chairman", "Smith"},
	})
	entities := []entity.Entity{
		{Value: "IBM", Type: "ORG", Bound: entity.Bound{Position: 0, Length: 1}},
		{Value: "Smith", Type: "PERSON", Bound: entity.Bound{Position: 5, Length: 1}},
	}

	g := NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 0,
		Policy:         ConstantLabel(labels.None),
	}, nil)

	pairs, err := g.Generate(doc, entities)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	require.Equal(t, "IBM", pairs[0].Source.Value)
	require.Equal(t, "Smith", pairs[0].Target.Value)
	require.Equal(t, 5, pairs[0].DistanceTerms)
	require.Equal(t, 0, pairs[0].DistanceSentences)
	require.Equal(t, labels.None, pairs[0].Label)
}

func TestGenerateSourceIsEarlierEntity(t *testing.T) {
	// Detection order does not decide direction; document position does.
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "criticized", "Russia"},
	})
	entities := []entity.Entity{
		entityAt("Russia", 2, 1),
		entityAt("USA", 0, 1),
	}

	g := NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 0,
		Policy:         ConstantLabel(labels.None),
	}, nil)

	pairs, err := g.Generate(doc, entities)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Equal(t, "USA", pairs[0].Source.Value)
	require.Equal(t, "Russia", pairs[0].Target.Value)
}

func TestGenerateTermsBound(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"a", "b", "c", "d", "e", "f"},
	})
	near := entityAt("a", 0, 1)
	far := entityAt("e", 4, 1)

	tests := []struct {
		name  string
		bound int
		want  int
	}{
		{"gap exceeds bound", 3, 0},
		{"gap equals bound stays included", 4, 1},
		{"gap under bound", 5, 1},
		{"unbounded", UnboundedTerms, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(Config{
				TermsBound:     tt.bound,
				SentencesBound: 0,
				Policy:         ConstantLabel(labels.None),
			}, nil)
			pairs, err := g.Generate(doc, []entity.Entity{near, far})
			require.NoError(t, err)
			require.Len(t, pairs, tt.want)
		})
	}
}

func TestGenerateSentencesBound(t *testing.T) {
	// Three sentences of two terms each.
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "spoke."},
		{"Russia", "replied."},
		{"France", "watched."},
	})
	entities := []entity.Entity{
		entityAt("USA", 0, 1),
		entityAt("Russia", 2, 1),
		entityAt("France", 4, 1),
	}

	// Bound 0 keeps same-sentence pairs only; no entity shares a
	// sentence here.
	g := NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 0,
		Policy:         ConstantLabel(labels.None),
	}, nil)
	pairs, err := g.Generate(doc, entities)
	require.NoError(t, err)
	require.Empty(t, pairs)

	// Bound 1 keeps adjacent-sentence pairs only.
	g = NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 1,
		Policy:         ConstantLabel(labels.None),
	}, nil)
	pairs, err = g.Generate(doc, entities)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		require.Equal(t, 1, p.DistanceSentences)
	}
}

func TestGenerateSkipsSynonymGroupMembers(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "praised", "United", "States", "policy", "toward", "Russia"},
	})
	entities := []entity.Entity{
		entityAt("USA", 0, 1),
		entityAt("United States", 2, 2),
		entityAt("Russia", 6, 1),
	}

	syn, err := synonyms.NewCollection(nil, [][]string{{"USA", "United States"}}, false)
	require.NoError(t, err)

	g := NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 0,
		Policy:         ConstantLabel(labels.None),
	}, syn)

	pairs, err := g.Generate(doc, entities)
	require.NoError(t, err)

	// USA<->United States is suppressed; each still pairs with Russia.
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		require.False(t, p.Source.Value != "Russia" && p.Target.Value != "Russia")
	}
}

func TestGenerateDeterministicOrder(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"a", "b", "c", "d"},
	})
	entities := []entity.Entity{
		entityAt("a", 0, 1),
		entityAt("b", 1, 1),
		entityAt("c", 2, 1),
	}
	g := NewGenerator(Config{
		TermsBound:     UnboundedTerms,
		SentencesBound: 0,
		Policy:         ConstantLabel(labels.None),
	}, nil)

	first, err := g.Generate(doc, entities)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := g.Generate(doc, entities)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestLookupLabelPolicy(t *testing.T) {
	src := entityAt("USA", 0, 1)
	tgt := entityAt("Russia", 5, 1)

	policy := LookupLabel(map[string]labels.Label{
		LookupKey(3, src, tgt): labels.Negative,
	}, labels.None)

	require.Equal(t, PolicyLookup, policy.Kind())
	require.Equal(t, labels.Negative, policy.LabelFor(3, src, tgt))
	require.Equal(t, labels.None, policy.LabelFor(3, tgt, src))
	require.Equal(t, labels.None, policy.LabelFor(4, src, tgt))
}
