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

package sampling

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/corpus"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/folding"
	"github.com/TrellixVulnTeam/ARElight-NFCA/lib/pairs"
)

// EncoderConfig controls how pairs are rendered into rows.
type EncoderConfig struct {
	// TermsPerContext caps the number of terms rendered into textA.
	// The window is centered on the midpoint of the two entity spans
	// and clamped to the document, so encoding is deterministic.
	TermsPerContext int

	// Formatter renders the two paired entities within textA.
	Formatter EntityFormatter

	// TextB, when non-empty, produces the second text view. Empty
	// yields single-text rows.
	TextB TextBTemplate
}

// ErrPairExceedsWindow reports a pair whose two entity spans are too far
// apart to both fit inside one context window. Such pairs cannot be
// rendered faithfully and are rejected at encode time.
var ErrPairExceedsWindow = errors.New("pair spans exceed the context window")

// Encoder turns pairs plus document context into rows.
type Encoder struct {
	cfg    EncoderConfig
	logger *zap.Logger
}

// NewEncoder validates the config and builds an encoder.
func NewEncoder(cfg EncoderConfig, logger *zap.Logger) (*Encoder, error) {
	if cfg.TermsPerContext < 1 {
		return nil, errors.New("terms per context must be at least 1")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{cfg: cfg, logger: logger}, nil
}

// Encode builds the row for one pair. The row id is derived from the
// document id, both entity bounds, and the split, so re-encoding the
// same pair always yields the same id. Pairs wider than the context
// window fail with ErrPairExceedsWindow; callers may filter those out.
func (e *Encoder) Encode(p pairs.Pair, doc *corpus.Document, split folding.Split) (Row, error) {
	terms := doc.Terms()
	if p.Source.Bound.End() > len(terms) || p.Target.Bound.End() > len(terms) {
		return Row{}, fmt.Errorf("pair bounds %s/%s exceed document of %d terms",
			p.Source.Bound, p.Target.Bound, len(terms))
	}
	minPos, maxEnd := spanExtent(p)
	if maxEnd-minPos > e.cfg.TermsPerContext {
		return Row{}, fmt.Errorf("%w: bounds %s/%s need %d terms, window holds %d",
			ErrPairExceedsWindow, p.Source.Bound, p.Target.Bound,
			maxEnd-minPos, e.cfg.TermsPerContext)
	}

	start, end := e.window(p, len(terms))
	textA := e.renderContext(p, terms, start, end)

	var textB string
	if e.cfg.TextB != "" {
		textB = e.cfg.TextB.Render(p.Source.Value, p.Target.Value)
	}

	row := Row{
		ID:    RowID(doc.ID, p.Source.Bound, p.Target.Bound, split),
		TextA: textA,
		TextB: textB,
		Label: p.Label,
	}

	e.logger.Debug("Encoded row",
		zap.String("row_id", row.ID),
		zap.Int("window_start", start),
		zap.Int("window_end", end))

	return row, nil
}

// window computes the [start, end) term range rendered into textA.
// Encode has already checked that both spans fit inside one window.
func (e *Encoder) window(p pairs.Pair, termCount int) (int, int) {
	if termCount <= e.cfg.TermsPerContext {
		return 0, termCount
	}
	center := (p.Source.Bound.Position + p.Target.Bound.Position) / 2
	start := center - e.cfg.TermsPerContext/2
	// Keep both entity spans inside the window: start at or before the
	// leading position, end at or past the trailing span.
	minPos, maxEnd := spanExtent(p)
	if start > minPos {
		start = minPos
	}
	if start < maxEnd-e.cfg.TermsPerContext {
		start = maxEnd - e.cfg.TermsPerContext
	}
	if start < 0 {
		start = 0
	}
	if start > termCount-e.cfg.TermsPerContext {
		start = termCount - e.cfg.TermsPerContext
	}
	return start, start + e.cfg.TermsPerContext
}

// spanExtent returns the leading position and trailing end over both
// entity spans of the pair.
func spanExtent(p pairs.Pair) (minPos, maxEnd int) {
	minPos = p.Source.Bound.Position
	if p.Target.Bound.Position < minPos {
		minPos = p.Target.Bound.Position
	}
	maxEnd = p.Source.Bound.End()
	if p.Target.Bound.End() > maxEnd {
		maxEnd = p.Target.Bound.End()
	}
	return minPos, maxEnd
}

// renderContext emits window terms verbatim in original order, replacing
// each paired entity span with its formatted token.
func (e *Encoder) renderContext(p pairs.Pair, terms []string, start, end int) string {
	var sb strings.Builder
	for t := start; t < end; {
		switch {
		case t == p.Source.Bound.Position:
			writeToken(&sb, e.cfg.Formatter.Render(p.Source, RoleSource))
			t = p.Source.Bound.End()
		case t == p.Target.Bound.Position:
			writeToken(&sb, e.cfg.Formatter.Render(p.Target, RoleTarget))
			t = p.Target.Bound.End()
		default:
			writeToken(&sb, terms[t])
			t++
		}
	}
	return sb.String()
}

func writeToken(sb *strings.Builder, token string) {
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(token)
}
