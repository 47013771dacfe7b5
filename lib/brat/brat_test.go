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

package brat

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
)

func resultFor(doc *corpus.Document, srcPos, tgtPos int, label labels.Label) PairResult {
	terms := doc.Terms()
	return PairResult{
		Pair: pairs.Pair{
			Source: entity.Entity{
				Value: terms[srcPos],
				Type:  "GPE",
				Bound: entity.Bound{Position: srcPos, Length: 1},
			},
			Target: entity.Entity{
				Value: terms[tgtPos],
				Type:  "GPE",
				Bound: entity.Bound{Position: tgtPos, Length: 1},
			},
		},
		Label: label,
	}
}

func TestExportBuildsAnnotations(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "criticized", "Russia"},
	})
	exporter, err := NewExporter(DefaultConfig())
	require.NoError(t, err)

	collection, payload, err := exporter.Export(doc, []PairResult{
		resultFor(doc, 0, 2, labels.Negative),
	})
	require.NoError(t, err)

	require.Equal(t, "USA criticized Russia", payload.Text)
	require.Len(t, payload.Entities, 2)
	require.Len(t, payload.Relations, 1)

	// First entity covers "USA" in character space.
	first := payload.Entities[0]
	require.Equal(t, "T1", first[0])
	require.Equal(t, "GPE", first[1])
	require.Equal(t, [][]int{{0, 3}}, first[2])

	// Second entity covers "Russia".
	second := payload.Entities[1]
	require.Equal(t, [][]int{{15, 21}}, second[2])

	rel := payload.Relations[0]
	require.Equal(t, "R1", rel[0])
	require.Equal(t, "NEG", rel[1])
	require.Equal(t, [][]string{{"Arg1", "T1"}, {"Arg2", "T2"}}, rel[2])

	require.Len(t, collection.EntityTypes, 1)
	require.Equal(t, "GPE", collection.EntityTypes[0].Type)
	require.Len(t, collection.RelationTypes, 1)
	require.Equal(t, "NEG", collection.RelationTypes[0].Type)
	require.Equal(t, "red", collection.RelationTypes[0].Color)
}

func TestExportSkipsNoLabelPairs(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "mentioned", "Russia"},
	})
	exporter, err := NewExporter(DefaultConfig())
	require.NoError(t, err)

	collection, payload, err := exporter.Export(doc, []PairResult{
		resultFor(doc, 0, 2, labels.None),
	})
	require.NoError(t, err)
	require.Empty(t, payload.Entities)
	require.Empty(t, payload.Relations)
	require.Empty(t, collection.EntityTypes)
}

func TestExportReusesEntityIDs(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"USA", "and", "Russia", "criticized", "France"},
	})
	exporter, err := NewExporter(DefaultConfig())
	require.NoError(t, err)

	_, payload, err := exporter.Export(doc, []PairResult{
		resultFor(doc, 0, 4, labels.Negative),
		resultFor(doc, 2, 4, labels.Negative),
	})
	require.NoError(t, err)

	// France appears in both pairs but is emitted once.
	require.Len(t, payload.Entities, 3)
	require.Len(t, payload.Relations, 2)
}

func TestExportSameSpanDifferentTypesStayDistinct(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{
		{"Washington", "criticized", "Russia"},
	})
	exporter, err := NewExporter(DefaultConfig())
	require.NoError(t, err)

	asGPE := resultFor(doc, 0, 2, labels.Negative)
	asOrg := resultFor(doc, 0, 2, labels.Negative)
	asOrg.Pair.Source.Type = "ORG"

	_, payload, err := exporter.Export(doc, []PairResult{asGPE, asOrg})
	require.NoError(t, err)

	// "Washington" is emitted once per type, "Russia" once.
	require.Len(t, payload.Entities, 3)
	types := make(map[string]int)
	for _, ent := range payload.Entities {
		types[ent[1].(string)]++
	}
	require.Equal(t, map[string]int{"GPE": 2, "ORG": 1}, types)
}

func TestExportUnmappedLabelIsFatal(t *testing.T) {
	doc := corpus.NewDocumentFromTerms(0, [][]string{{"a", "b"}})
	exporter, err := NewExporter(Config{Tags: map[labels.Label]string{labels.Positive: "POS"}})
	require.NoError(t, err)

	_, _, err = exporter.Export(doc, []PairResult{
		resultFor(doc, 0, 1, labels.Negative),
	})
	require.ErrorContains(t, err, "no tag configured")
}

func TestNewExporterRequiresTags(t *testing.T) {
	_, err := NewExporter(Config{})
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tags:
  positive: POS
  negative: NEG
entity_colors:
  ORG: "#7fa2ff"
relation_colors:
  NEG: red
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "POS", cfg.Tags[labels.Positive])
	require.Equal(t, "#7fa2ff", cfg.EntityColors["ORG"])
	require.Equal(t, "red", cfg.RelationColors["NEG"])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Document{Text: "USA criticized Russia"}))
	require.True(t, strings.Contains(buf.String(), `"USA criticized Russia"`))
}
