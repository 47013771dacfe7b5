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
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Ensure TSVStore implements the Store interface
var _ Store = (*TSVStore)(nil)

var tsvHeader = []string{"id", "text_a", "text_b", "label"}

// TSVStore persists rows as gzip-compressed TSV files
// ("sample-<split>.tsv.gz") under a target directory.
type TSVStore struct {
	dir string
}

// NewTSVStore creates the target directory if needed.
func NewTSVStore(dir string) (*TSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating samples dir: %w", err)
	}
	return &TSVStore{dir: dir}, nil
}

// Target returns the sample file path of a split.
func (s *TSVStore) Target(split folding.Split) string {
	return filepath.Join(s.dir, fmt.Sprintf("sample-%s.tsv.gz", split))
}

func (s *TSVStore) Write(_ context.Context, split folding.Split, rows []sampling.Row) error {
	target := s.Target(split)
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	gz := gzip.NewWriter(f)
	w := csv.NewWriter(gz)
	w.Comma = '\t'

	if err := w.Write(tsvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		if err := validateRow(r); err != nil {
			return err
		}
		if err := w.Write([]string{r.ID, r.TextA, r.TextB, string(r.Label)}); err != nil {
			return fmt.Errorf("writing row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip stream: %w", err)
	}
	return f.Close()
}

func (s *TSVStore) Read(_ context.Context, split folding.Split) ([]sampling.Row, error) {
	target := s.Target(split)
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrSplitMissing, split, target)
		}
		return nil, fmt.Errorf("opening %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.Comma = '\t'
	r.FieldsPerRecord = len(tsvHeader)

	// Header line.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("%w: missing header in %s", ErrRowCorrupted, target)
	}

	var rows []sampling.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", target, err)
		}
		row := sampling.Row{
			ID:    record[0],
			TextA: record[1],
			TextB: record[2],
			Label: labels.Label(record[3]),
		}
		if err := validateRow(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TSVStore) Close() error { return nil }
