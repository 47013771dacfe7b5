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

package inference

import (
	"fmt"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Bag is an ordered group of rows with a fixed target size. The final
// bag of a run may be shorter; its rows are still processed.
type Bag struct {
	Rows []sampling.Row
}

// Minibatch groups bags fed to the predictor in one invocation.
type Minibatch struct {
	Bags []Bag
}

// Rows flattens the minibatch's rows in bag order.
func (m Minibatch) Rows() []sampling.Row {
	var out []sampling.Row
	for _, b := range m.Bags {
		out = append(out, b.Rows...)
	}
	return out
}

// Partition splits rows into bags of bagSize grouped into minibatches
// of bagsPerMinibatch bags. It is a pure function of its inputs: no
// row is dropped, order is preserved, and the trailing bag keeps its
// short remainder.
func Partition(rows []sampling.Row, bagSize, bagsPerMinibatch int) ([]Minibatch, error) {
	if bagSize < 1 {
		return nil, fmt.Errorf("bag size must be at least 1, got %d", bagSize)
	}
	if bagsPerMinibatch < 1 {
		return nil, fmt.Errorf("bags per minibatch must be at least 1, got %d", bagsPerMinibatch)
	}

	var bags []Bag
	for start := 0; start < len(rows); start += bagSize {
		end := start + bagSize
		if end > len(rows) {
			end = len(rows)
		}
		bags = append(bags, Bag{Rows: rows[start:end]})
	}

	var minibatches []Minibatch
	for start := 0; start < len(bags); start += bagsPerMinibatch {
		end := start + bagsPerMinibatch
		if end > len(bags) {
			end = len(bags)
		}
		minibatches = append(minibatches, Minibatch{Bags: bags[start:end]})
	}
	return minibatches, nil
}
