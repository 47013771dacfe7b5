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

// Package synonyms groups entity surface values that refer to the same
// object, so pair generation can skip self-referential candidates.
// Normalization (stemming, lemmatization) is pluggable and external.
package synonyms

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Normalizer reduces a surface value to its grouping form.
type Normalizer interface {
	Normalize(value string) (string, error)
}

// LowercaseNormalizer trims and lowercases values. It is the fallback
// when no stemmer is wired in.
type LowercaseNormalizer struct{}

func (LowercaseNormalizer) Normalize(value string) (string, error) {
	return strings.ToLower(strings.TrimSpace(value)), nil
}

// ErrReadOnly is returned when registering a value on a read-only
// collection.
var ErrReadOnly = errors.New("synonym collection is read-only")

// Collection assigns group ids to normalized values.
type Collection struct {
	norm     Normalizer
	groups   map[string]int
	next     int
	readOnly bool
}

// NewCollection builds a collection from pre-defined value groups. Every
// value in the same group receives the same id.
func NewCollection(norm Normalizer, groups [][]string, readOnly bool) (*Collection, error) {
	if norm == nil {
		norm = LowercaseNormalizer{}
	}
	c := &Collection{norm: norm, groups: make(map[string]int)}
	for _, group := range groups {
		id := c.next
		registered := false
		for _, v := range group {
			key, err := norm.Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("normalizing %q: %w", v, err)
			}
			if _, exists := c.groups[key]; exists {
				continue
			}
			c.groups[key] = id
			registered = true
		}
		if registered {
			c.next++
		}
	}
	c.readOnly = readOnly
	return c, nil
}

// ReadGroups parses a synonym groups file: one group per line, values
// separated by commas, "#" starts a comment.
func ReadGroups(r io.Reader) ([][]string, error) {
	var groups [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var group []string
		for _, v := range strings.Split(line, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				group = append(group, v)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading synonym groups: %w", err)
	}
	return groups, nil
}

// GroupID returns the group id of a value, if registered.
func (c *Collection) GroupID(value string) (int, bool, error) {
	key, err := c.norm.Normalize(value)
	if err != nil {
		return 0, false, fmt.Errorf("normalizing %q: %w", value, err)
	}
	id, ok := c.groups[key]
	return id, ok, nil
}

// RegisterOrGet returns the group id of a value, registering a fresh
// group when the value is unknown.
func (c *Collection) RegisterOrGet(value string) (int, error) {
	key, err := c.norm.Normalize(value)
	if err != nil {
		return 0, fmt.Errorf("normalizing %q: %w", value, err)
	}
	if id, ok := c.groups[key]; ok {
		return id, nil
	}
	if c.readOnly {
		return 0, fmt.Errorf("%w: %q", ErrReadOnly, value)
	}
	id := c.next
	c.groups[key] = id
	c.next++
	return id, nil
}

// Len returns the number of registered values.
func (c *Collection) Len() int { return len(c.groups) }
