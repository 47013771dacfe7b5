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

// Package brat exports decoded relations as brat-compatible collection
// and document JSON for annotation UIs.
package brat

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bytedance/sonic/encoder"
	"gopkg.in/yaml.v3"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
)

// Config maps labels and entity types to brat rendering attributes.
type Config struct {
	// Tags maps decoded labels to short relation tags (e.g., POS, NEG).
	Tags map[labels.Label]string `yaml:"tags"`
	// EntityColors maps entity types to background colors.
	EntityColors map[string]string `yaml:"entity_colors"`
	// RelationColors maps relation tags to arc colors.
	RelationColors map[string]string `yaml:"relation_colors"`
}

// DefaultConfig returns the conventional sentiment rendering config.
func DefaultConfig() Config {
	return Config{
		Tags: map[labels.Label]string{
			labels.Positive: "POS",
			labels.Negative: "NEG",
		},
		EntityColors: map[string]string{
			"ORG":    "#7fa2ff",
			"GPE":    "#7fa200",
			"PERSON": "#7f00ff",
			"LOC":    "#a2ff7f",
		},
		RelationColors: map[string]string{
			"POS": "green",
			"NEG": "red",
		},
	}
}

// LoadConfig reads a rendering config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading brat config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing brat config: %w", err)
	}
	return cfg, nil
}

// PairResult joins a generated pair with its decoded label.
type PairResult struct {
	Pair  pairs.Pair
	Label labels.Label
}

// EntityType describes one entity type in the collection config.
type EntityType struct {
	Type    string   `json:"type"`
	Labels  []string `json:"labels"`
	BgColor string   `json:"bgColor,omitempty"`
}

// RelationType describes one relation type in the collection config.
type RelationType struct {
	Type   string        `json:"type"`
	Labels []string      `json:"labels"`
	Color  string        `json:"color,omitempty"`
	Args   []RelationArg `json:"args"`
}

// RelationArg names one argument role of a relation type.
type RelationArg struct {
	Role string `json:"role"`
}

// Collection is the brat collection configuration document.
type Collection struct {
	EntityTypes   []EntityType   `json:"entity_types"`
	RelationTypes []RelationType `json:"relation_types"`
}

// Document is the brat document payload: the text plus entity and
// relation annotations.
type Document struct {
	Text      string  `json:"text"`
	Entities  [][]any `json:"entities"`
	Relations [][]any `json:"relations"`
}

// Exporter builds brat payloads from decoded pair results.
type Exporter struct {
	cfg Config
}

// NewExporter validates the config and returns an exporter.
func NewExporter(cfg Config) (*Exporter, error) {
	if len(cfg.Tags) == 0 {
		return nil, fmt.Errorf("brat config has no label tags")
	}
	return &Exporter{cfg: cfg}, nil
}

// Export renders one document's decoded pairs. Pairs decoded to the
// no-label placeholder are skipped; every other pair becomes a directed
// relation between its two entity spans, tagged with the mapped short
// code.
func (e *Exporter) Export(doc *corpus.Document, results []PairResult) (Collection, Document, error) {
	offsets := doc.TermOffsets()
	terms := doc.Terms()

	entityIDs := make(map[string]string)
	var entities [][]any
	var relations [][]any
	usedTypes := make(map[string]struct{})
	usedTags := make(map[string]struct{})

	addEntity := func(p pairs.Pair, source bool) (string, error) {
		ent := p.Target
		if source {
			ent = p.Source
		}
		// Same span under two typings stays two distinct entities.
		key := ent.Bound.String() + "|" + ent.Type
		if id, ok := entityIDs[key]; ok {
			return id, nil
		}
		if ent.Bound.End() > len(terms) {
			return "", fmt.Errorf("entity bound %s exceeds document of %d terms", ent.Bound, len(terms))
		}
		start := offsets[ent.Bound.Position]
		lastTerm := ent.Bound.End() - 1
		end := offsets[lastTerm] + len(terms[lastTerm])

		id := fmt.Sprintf("T%d", len(entityIDs)+1)
		entityIDs[key] = id
		entities = append(entities, []any{id, ent.Type, [][]int{{start, end}}})
		usedTypes[ent.Type] = struct{}{}
		return id, nil
	}

	for _, res := range results {
		if res.Label == labels.None {
			continue
		}
		tag, ok := e.cfg.Tags[res.Label]
		if !ok {
			return Collection{}, Document{}, fmt.Errorf("no tag configured for label %q", res.Label)
		}

		srcID, err := addEntity(res.Pair, true)
		if err != nil {
			return Collection{}, Document{}, err
		}
		tgtID, err := addEntity(res.Pair, false)
		if err != nil {
			return Collection{}, Document{}, err
		}

		relID := fmt.Sprintf("R%d", len(relations)+1)
		relations = append(relations, []any{relID, tag, [][]string{{"Arg1", srcID}, {"Arg2", tgtID}}})
		usedTags[tag] = struct{}{}
	}

	var collection Collection
	for _, t := range sortedKeys(usedTypes) {
		collection.EntityTypes = append(collection.EntityTypes, EntityType{
			Type:    t,
			Labels:  []string{t},
			BgColor: e.cfg.EntityColors[t],
		})
	}
	for _, tag := range sortedKeys(usedTags) {
		collection.RelationTypes = append(collection.RelationTypes, RelationType{
			Type:   tag,
			Labels: []string{tag},
			Color:  e.cfg.RelationColors[tag],
			Args:   []RelationArg{{Role: "Arg1"}, {Role: "Arg2"}},
		})
	}

	return collection, Document{
		Text:      doc.Text(),
		Entities:  entities,
		Relations: relations,
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteJSON streams a brat payload as JSON.
func WriteJSON(w io.Writer, payload any) error {
	enc := encoder.NewStreamEncoder(w)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding brat payload: %w", err)
	}
	return nil
}
