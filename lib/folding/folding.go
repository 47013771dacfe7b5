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

// Package folding assigns documents to named data splits. Inference-only
// runs use NoFolding, which maps every document to a single split.
package folding

import (
	"errors"
	"fmt"
	"sort"
)

// Split names a data split.
type Split string

const (
	Train Split = "train"
	Test  Split = "test"
	Dev   Split = "dev"
)

// ErrUnknownDoc is returned when a document id has no split assignment.
var ErrUnknownDoc = errors.New("document id not covered by folding")

// Folding maps every document id in the working set to exactly one split.
type Folding interface {
	// SplitOf returns the split assigned to the document.
	SplitOf(docID int) (Split, error)

	// Splits returns the splits this folding produces, in a fixed order.
	Splits() []Split

	// DocIDs returns the document ids assigned to the split, ascending.
	DocIDs(s Split) []int
}

// NoFolding maps every listed document to one designated split.
type NoFolding struct {
	docIDs map[int]struct{}
	order  []int
	target Split
}

// NewNoFolding builds a no-folding assignment over docIDs, commonly with
// the Test split for inference-only runs.
func NewNoFolding(docIDs []int, target Split) *NoFolding {
	set := make(map[int]struct{}, len(docIDs))
	order := make([]int, 0, len(docIDs))
	for _, id := range docIDs {
		if _, dup := set[id]; dup {
			continue
		}
		set[id] = struct{}{}
		order = append(order, id)
	}
	sort.Ints(order)
	return &NoFolding{docIDs: set, order: order, target: target}
}

func (f *NoFolding) SplitOf(docID int) (Split, error) {
	if _, ok := f.docIDs[docID]; !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownDoc, docID)
	}
	return f.target, nil
}

func (f *NoFolding) Splits() []Split { return []Split{f.target} }

func (f *NoFolding) DocIDs(s Split) []int {
	if s != f.target {
		return nil
	}
	out := make([]int, len(f.order))
	copy(out, f.order)
	return out
}

// FixedFolding maps documents to splits through an explicit assignment.
type FixedFolding struct {
	assign map[int]Split
	splits []Split
}

// NewFixedFolding builds a folding from an explicit doc id to split map.
func NewFixedFolding(assign map[int]Split) *FixedFolding {
	seen := make(map[Split]struct{})
	var splits []Split
	ids := make([]int, 0, len(assign))
	for id := range assign {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s := assign[id]
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			splits = append(splits, s)
		}
	}
	copied := make(map[int]Split, len(assign))
	for id, s := range assign {
		copied[id] = s
	}
	return &FixedFolding{assign: copied, splits: splits}
}

func (f *FixedFolding) SplitOf(docID int) (Split, error) {
	s, ok := f.assign[docID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownDoc, docID)
	}
	return s, nil
}

func (f *FixedFolding) Splits() []Split {
	out := make([]Split, len(f.splits))
	copy(out, f.splits)
	return out
}

func (f *FixedFolding) DocIDs(s Split) []int {
	var out []int
	for id, assigned := range f.assign {
		if assigned == s {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
