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

// Package embeddings loads pretrained vocabulary and term-embedding
// artifacts. Artifacts are consumed read-only; producing them is out of
// scope.
package embeddings

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrArtifactMismatch is returned when the vocabulary and the embedding
// table disagree on size.
var ErrArtifactMismatch = errors.New("vocabulary and embedding table sizes differ")

// Vocab is an ordered term vocabulary; the line number of a term is its
// id.
type Vocab struct {
	terms []string
	index map[string]int
}

// LoadVocab reads a vocabulary file, one token per line. A missing file
// is fatal for the run.
func LoadVocab(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadVocab(f)
}

// ReadVocab parses vocabulary lines from a reader.
func ReadVocab(r io.Reader) (*Vocab, error) {
	v := &Vocab{index: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		term := scanner.Text()
		if term == "" {
			continue
		}
		if _, dup := v.index[term]; dup {
			continue
		}
		v.index[term] = len(v.terms)
		v.terms = append(v.terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	if len(v.terms) == 0 {
		return nil, errors.New("vocabulary is empty")
	}
	return v, nil
}

// ID returns the id of a term.
func (v *Vocab) ID(term string) (int, bool) {
	id, ok := v.index[term]
	return id, ok
}

// Term returns the term with the given id.
func (v *Vocab) Term(id int) (string, error) {
	if id < 0 || id >= len(v.terms) {
		return "", fmt.Errorf("vocab id %d out of range [0, %d)", id, len(v.terms))
	}
	return v.terms[id], nil
}

// Size returns the number of terms.
func (v *Vocab) Size() int { return len(v.terms) }

// Terms returns the term to id mapping. The returned map is shared and
// must not be mutated.
func (v *Vocab) Terms() map[string]int { return v.index }

// Table is a dense term-embedding matrix, one vector per vocabulary id.
type Table struct {
	dim     int
	vectors [][]float32
}

// LoadTable reads the binary embedding table: two little-endian uint32
// (rows, dim) followed by rows*dim float32 values.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading embedding table %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadTable(bufio.NewReader(f))
}

// ReadTable parses the binary embedding format from a reader.
func ReadTable(r io.Reader) (*Table, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading embedding header: %w", err)
	}
	rows, dim := int(header[0]), int(header[1])
	if rows < 1 || dim < 1 {
		return nil, fmt.Errorf("invalid embedding shape %dx%d", rows, dim)
	}

	flat := make([]float32, rows*dim)
	if err := binary.Read(r, binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("reading embedding values: %w", err)
	}

	vectors := make([][]float32, rows)
	for i := range vectors {
		vectors[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return &Table{dim: dim, vectors: vectors}, nil
}

// WriteTable writes the binary embedding format; used by tests and
// artifact conversion tools.
func WriteTable(w io.Writer, vectors [][]float32) error {
	if len(vectors) == 0 {
		return errors.New("empty embedding table")
	}
	dim := len(vectors[0])
	header := [2]uint32{uint32(len(vectors)), uint32(dim)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing embedding header: %w", err)
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("vector %d has dim %d, want %d", i, len(vec), dim)
		}
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("writing vector %d: %w", i, err)
		}
	}
	return nil
}

// Dim returns the embedding dimensionality.
func (t *Table) Dim() int { return t.dim }

// Rows returns the number of vectors.
func (t *Table) Rows() int { return len(t.vectors) }

// Vector returns the embedding of a vocabulary id. The returned slice
// is shared and must not be mutated.
func (t *Table) Vector(id int) ([]float32, error) {
	if id < 0 || id >= len(t.vectors) {
		return nil, fmt.Errorf("embedding id %d out of range [0, %d)", id, len(t.vectors))
	}
	return t.vectors[id], nil
}

// CheckAligned verifies the vocabulary and table cover the same ids.
func CheckAligned(v *Vocab, t *Table) error {
	if v.Size() != t.Rows() {
		return fmt.Errorf("%w: vocab=%d embeddings=%d", ErrArtifactMismatch, v.Size(), t.Rows())
	}
	return nil
}
