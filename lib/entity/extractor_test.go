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

package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubDetector returns canned detections for every input sequence.
type stubDetector struct {
	detections []Detection
	err        error
	calls      int
}

func (s *stubDetector) Extract(_ context.Context, sequences [][]string) ([][]Detection, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]Detection, len(sequences))
	for i := range sequences {
		out[i] = s.detections
	}
	return out, nil
}

func (s *stubDetector) Close() error { return nil }

func TestExtractJoinsSpanTerms(t *testing.T) {
	detector := &stubDetector{detections: []Detection{
		{Position: 0, Length: 2, ObjectType: "ORG"},
		{Position: 3, Length: 1, ObjectType: "GPE"},
	}}
	ex := NewExtractor(detector, KeepAll(), nil)

	entities, err := ex.Extract(context.Background(), []string{"United", "States", "criticized", "Russia"})
	require.NoError(t, err)
	require.Len(t, entities, 2)

	require.Equal(t, "United States", entities[0].Value)
	require.Equal(t, "ORG", entities[0].Type)
	require.Equal(t, Bound{Position: 0, Length: 2}, entities[0].Bound)

	require.Equal(t, "Russia", entities[1].Value)
	require.Equal(t, 4, entities[1].Bound.End())
}

func TestExtractFilterDropsWithoutError(t *testing.T) {
	detector := &stubDetector{detections: []Detection{
		{Position: 0, Length: 1, ObjectType: "ORG"},
		{Position: 1, Length: 1, ObjectType: "LOC"},
		{Position: 2, Length: 1, ObjectType: "PERSON"},
	}}
	ex := NewExtractor(detector, KeepTypes("ORG", "PERSON"), nil)

	entities, err := ex.Extract(context.Background(), []string{"IBM", "Paris", "Smith"})
	require.NoError(t, err)
	require.Len(t, entities, 2)
	require.Equal(t, "IBM", entities[0].Value)
	require.Equal(t, "Smith", entities[1].Value)
}

func TestExtractBoundViolationsAreFatal(t *testing.T) {
	tests := []struct {
		name      string
		detection Detection
	}{
		{"negative position", Detection{Position: -1, Length: 1, ObjectType: "ORG"}},
		{"zero length", Detection{Position: 0, Length: 0, ObjectType: "ORG"}},
		{"end past sequence", Detection{Position: 2, Length: 2, ObjectType: "ORG"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := &stubDetector{detections: []Detection{tt.detection}}
			ex := NewExtractor(detector, KeepAll(), nil)

			_, err := ex.Extract(context.Background(), []string{"a", "b", "c"})
			require.ErrorIs(t, err, ErrBoundOutOfRange)
		})
	}
}

func TestExtractPropagatesDetectorError(t *testing.T) {
	boom := errors.New("backend unreachable")
	ex := NewExtractor(&stubDetector{err: boom}, KeepAll(), nil)

	_, err := ex.Extract(context.Background(), []string{"a"})
	require.ErrorIs(t, err, boom)
}

func TestFilterKinds(t *testing.T) {
	require.True(t, KeepAll().Keep("anything"))
	require.Equal(t, FilterKeepAll, Filter{}.Kind())
	require.True(t, Filter{}.Keep("zero value keeps all"))

	typed := KeepTypes("ORG")
	require.True(t, typed.Keep("ORG"))
	require.False(t, typed.Keep("GPE"))

	custom := KeepFunc(func(objectType string) bool { return objectType != "LOC" })
	require.Equal(t, FilterCustom, custom.Kind())
	require.True(t, custom.Keep("ORG"))
	require.False(t, custom.Keep("LOC"))

	require.Equal(t, FilterKeepAll, KeepFunc(nil).Kind())
}
