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

package bert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/embeddings"
)

func testVocab(t *testing.T) *embeddings.Vocab {
	t.Helper()
	v, err := embeddings.ReadVocab(strings.NewReader(strings.Join([]string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]",
		"usa", "criticized", "russia",
	}, "\n")))
	require.NoError(t, err)
	return v
}

func TestEncodeSingleSequence(t *testing.T) {
	wp, err := NewWordPiece(testVocab(t), true, 64)
	require.NoError(t, err)

	enc, err := wp.Encode("USA criticized Russia", "")
	require.NoError(t, err)

	// [CLS] usa criticized russia [SEP]
	require.Equal(t, []int{2, 4, 5, 6, 3}, enc.IDs)
	require.Len(t, enc.TypeIDs, len(enc.IDs))
	require.Len(t, enc.AttentionMask, len(enc.IDs))
	for _, ty := range enc.TypeIDs {
		require.Equal(t, 0, ty)
	}
	for _, m := range enc.AttentionMask {
		require.Equal(t, 1, m)
	}
}

func TestEncodePairTypeIDs(t *testing.T) {
	wp, err := NewWordPiece(testVocab(t), true, 64)
	require.NoError(t, err)

	enc, err := wp.Encode("usa criticized russia", "usa russia")
	require.NoError(t, err)

	// The second sequence carries type id 1 up to its closing [SEP].
	require.Contains(t, enc.TypeIDs, 0)
	require.Contains(t, enc.TypeIDs, 1)
	require.Len(t, enc.AttentionMask, len(enc.IDs))
}

func TestEncodeUnknownTermMapsToUNK(t *testing.T) {
	wp, err := NewWordPiece(testVocab(t), true, 64)
	require.NoError(t, err)

	enc, err := wp.Encode("france", "")
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 3}, enc.IDs)
}

func TestEncodeTruncates(t *testing.T) {
	wp, err := NewWordPiece(testVocab(t), true, 4)
	require.NoError(t, err)
	require.Equal(t, 4, wp.MaxSequenceLength())

	enc, err := wp.Encode("usa criticized russia usa criticized russia", "")
	require.NoError(t, err)
	require.LessOrEqual(t, len(enc.IDs), 4)
}

func TestNewWordPieceRequiresSpecialTokens(t *testing.T) {
	v, err := embeddings.ReadVocab(strings.NewReader("[UNK]\nusa\n"))
	require.NoError(t, err)

	_, err = NewWordPiece(v, true, 64)
	require.Error(t, err)
}

func TestNewWordPieceRejectsBadLength(t *testing.T) {
	_, err := NewWordPiece(testVocab(t), true, 0)
	require.Error(t, err)
}
