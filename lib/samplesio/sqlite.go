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
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/sampling"
)

// Ensure SQLiteStore implements the Store interface
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists rows in a SQLite database, one ordered table
// shared by all splits.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the sample database with WAL mode.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS samples (
	split TEXT NOT NULL,
	ord INTEGER NOT NULL,
	row_id TEXT NOT NULL,
	text_a TEXT NOT NULL,
	text_b TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL,
	PRIMARY KEY (split, ord)
);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Target returns the database path qualified by the split.
func (s *SQLiteStore) Target(split folding.Split) string {
	return fmt.Sprintf("%s#sample-%s", s.path, split)
}

func (s *SQLiteStore) Write(ctx context.Context, split folding.Split, rows []sampling.Row) error {
	for _, r := range rows {
		if err := validateRow(r); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM samples WHERE split = ?", string(split)); err != nil {
		return fmt.Errorf("clearing split %s: %w", split, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO samples (split, ord, row_id, text_a, text_b, label) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, string(split), i, r.ID, r.TextA, r.TextB, string(r.Label)); err != nil {
			return fmt.Errorf("inserting row %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Read(ctx context.Context, split folding.Split) ([]sampling.Row, error) {
	res, err := s.db.QueryContext(ctx,
		"SELECT row_id, text_a, text_b, label FROM samples WHERE split = ? ORDER BY ord", string(split))
	if err != nil {
		return nil, fmt.Errorf("querying split %s: %w", split, err)
	}
	defer func() { _ = res.Close() }()

	var rows []sampling.Row
	for res.Next() {
		var row sampling.Row
		var label string
		if err := res.Scan(&row.ID, &row.TextA, &row.TextB, &label); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row.Label = labels.Label(label)
		if err := validateRow(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("iterating split %s: %w", split, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: %s", ErrSplitMissing, split)
	}
	return rows, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
