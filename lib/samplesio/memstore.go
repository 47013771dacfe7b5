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

package samplesio

import (
	"context"
	"fmt"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Ensure MemStore implements the Store interface
var _ Store = (*MemStore)(nil)

// MemStore keeps rows in memory. Intended for tests and single-process
// runs.
type MemStore struct {
	rows map[folding.Split][]sampling.Row
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[folding.Split][]sampling.Row)}
}

func (m *MemStore) Write(_ context.Context, split folding.Split, rows []sampling.Row) error {
	for _, r := range rows {
		if err := validateRow(r); err != nil {
			return err
		}
	}
	copied := make([]sampling.Row, len(rows))
	copy(copied, rows)
	m.rows[split] = copied
	return nil
}

func (m *MemStore) Read(_ context.Context, split folding.Split) ([]sampling.Row, error) {
	stored, ok := m.rows[split]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSplitMissing, split)
	}
	out := make([]sampling.Row, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemStore) Target(split folding.Split) string {
	return "mem://sample-" + string(split)
}

func (m *MemStore) Close() error {
	m.rows = nil
	return nil
}
