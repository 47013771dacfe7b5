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

// Package samplesio persists encoded rows keyed by data split. All
// implementations are lossless for every row field, including the row
// id, and preserve write order on read-back.
package samplesio

import (
	"context"
	"errors"
	"fmt"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// ErrRowCorrupted is returned when a stored row misses required fields
// on read-back.
var ErrRowCorrupted = errors.New("stored row is missing required fields")

// ErrSplitMissing is returned when reading a split that was never
// written.
var ErrSplitMissing = errors.New("no samples stored for split")

// Store persists and reads encoded rows keyed by split.
type Store interface {
	// Write replaces the rows of a split. Rows are stored in the given
	// order.
	Write(ctx context.Context, split folding.Split, rows []sampling.Row) error

	// Read returns the rows of a split in write order.
	Read(ctx context.Context, split folding.Split) ([]sampling.Row, error)

	// Target returns the storage target (path or key) of a split,
	// derived from the store's naming scheme.
	Target(split folding.Split) string

	// Close releases store resources.
	Close() error
}

// validateRow rejects rows that lost required fields in storage.
func validateRow(r sampling.Row) error {
	if r.ID == "" || r.TextA == "" {
		return fmt.Errorf("%w: id=%q", ErrRowCorrupted, r.ID)
	}
	return nil
}
