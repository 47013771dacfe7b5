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

package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic/decoder"
	"github.com/bytedance/sonic/encoder"
	"go.uber.org/zap"
)

// Ensure RemotePredictor implements the Predictor interface
var _ Predictor = (*RemotePredictor)(nil)

// RemotePredictor calls an externally served relation model over HTTP.
// The model holds its own weights; Configure parameters are forwarded
// with every request so the service can validate topology, and Bind is
// a no-op because artifacts live server-side.
type RemotePredictor struct {
	url    string
	client *http.Client
	logger *zap.Logger
	cfg    Config
}

// NewRemotePredictor builds a predictor client. A nil client uses a
// default with a 60s timeout.
func NewRemotePredictor(url string, client *http.Client, logger *zap.Logger) *RemotePredictor {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemotePredictor{url: url, client: client, logger: logger}
}

type predictRow struct {
	ID    string `json:"id"`
	TextA string `json:"text_a"`
	TextB string `json:"text_b,omitempty"`
}

type predictRequest struct {
	LabelsCount       int          `json:"labels_count"`
	BagSize           int          `json:"bag_size"`
	MaxSequenceLength int          `json:"max_sequence_length"`
	DoLowercase       bool         `json:"do_lowercase"`
	Rows              []predictRow `json:"rows"`
}

type predictResponse struct {
	Scores [][]float32 `json:"scores"`
}

func (r *RemotePredictor) Configure(cfg Config) error {
	if cfg.LabelsCount < 1 {
		return fmt.Errorf("labels count must be at least 1, got %d", cfg.LabelsCount)
	}
	r.cfg = cfg
	return nil
}

func (r *RemotePredictor) Bind(_ Artifacts) error { return nil }

func (r *RemotePredictor) Predict(ctx context.Context, mb Minibatch) ([][]float32, error) {
	rows := mb.Rows()
	payload := predictRequest{
		LabelsCount:       r.cfg.LabelsCount,
		BagSize:           r.cfg.BagSize,
		MaxSequenceLength: r.cfg.MaxSequenceLength,
		DoLowercase:       r.cfg.DoLowercase,
		Rows:              make([]predictRow, 0, len(rows)),
	}
	for _, row := range rows {
		payload.Rows = append(payload.Rows, predictRow{ID: row.ID, TextA: row.TextA, TextB: row.TextB})
	}

	var body bytes.Buffer
	if err := encoder.NewStreamEncoder(&body).Encode(payload); err != nil {
		return nil, fmt.Errorf("encoding predictor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return nil, fmt.Errorf("building predictor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling predictor: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("predictor returned %d: %s", resp.StatusCode, detail)
	}

	var decoded predictResponse
	if err := decoder.NewStreamDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding predictor response: %w", err)
	}
	if len(decoded.Scores) != len(rows) {
		return nil, fmt.Errorf("predictor returned %d score vectors for %d rows",
			len(decoded.Scores), len(rows))
	}
	for i, scores := range decoded.Scores {
		if len(scores) != r.cfg.LabelsCount {
			return nil, fmt.Errorf("row %d: predictor returned %d scores for %d labels",
				i, len(scores), r.cfg.LabelsCount)
		}
	}

	r.logger.Debug("Remote prediction complete",
		zap.Int("num_rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)))
	return decoded.Scores, nil
}

func (r *RemotePredictor) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
