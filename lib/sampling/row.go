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

// Package sampling encodes entity pairs plus document context into
// model-ready rows.
package sampling

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/entity"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/labels"
)

// Row is an encoded sample. Rows are immutable: written once to the
// sample store and read exactly once per inference run.
type Row struct {
	// ID is the opaque stable key joining the row with its prediction.
	ID string `json:"id"`
	// TextA is the rendered context with both entities annotated.
	TextA string `json:"text_a"`
	// TextB is the optional templated hypothesis; empty means absent.
	TextB string `json:"text_b,omitempty"`
	// Label is the pair label, labels.None for inference-only rows.
	Label labels.Label `json:"label"`
}

// RowID derives the stable row key from the document id, the two entity
// bounds, and the split. Identical inputs always produce identical ids,
// so a later join with predictions is order-independent.
func RowID(docID int, source, target entity.Bound, split folding.Split) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(
		fmt.Sprintf("%d|%s|%s|%s", docID, source, target, split)))
}
