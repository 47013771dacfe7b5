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

package labels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalerRoundTrip(t *testing.T) {
	s := ThreeScaler()
	require.Equal(t, 3, s.LabelsCount())

	for code, label := range map[int]Label{0: None, 1: Positive, 2: Negative} {
		got, err := s.ToInt(label)
		require.NoError(t, err)
		require.Equal(t, code, got)

		back, err := s.ToLabel(code)
		require.NoError(t, err)
		require.Equal(t, label, back)
	}
}

func TestScalerUnknownLabel(t *testing.T) {
	s := SingleScaler()
	_, err := s.ToInt(Negative)
	require.ErrorIs(t, err, ErrUnknownLabel)

	_, err = s.ToLabel(5)
	require.Error(t, err)
}

func TestNewScalerRejectsDuplicates(t *testing.T) {
	_, err := NewScaler(Positive, Positive)
	require.Error(t, err)
}

func TestDecodeArgmax(t *testing.T) {
	s := ThreeScaler()

	tests := []struct {
		name   string
		scores []float32
		want   Label
	}{
		{"clear winner", []float32{0.1, 0.8, 0.1}, Positive},
		{"negative wins", []float32{0.2, 0.1, 0.7}, Negative},
		{"none wins", []float32{0.9, 0.05, 0.05}, None},
		{"tie keeps lowest code", []float32{0.4, 0.4, 0.2}, None},
		{"three-way tie keeps lowest code", []float32{0.3, 0.3, 0.3}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(s, tt.scores)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	s := ThreeScaler()
	scores := []float32{0.5, 0.5, 0.1}
	first, err := Decode(s, scores)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		got, err := Decode(s, scores)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestDecodeScoreLengthMismatch(t *testing.T) {
	s := ThreeScaler()
	_, err := Decode(s, []float32{0.1, 0.9})
	require.ErrorIs(t, err, ErrScoreLength)
}

func TestDefaultTags(t *testing.T) {
	tags := DefaultTags()
	require.Equal(t, "POS", tags[Positive])
	require.Equal(t, "NEG", tags[Negative])
	_, ok := tags[None]
	require.False(t, ok)
}
