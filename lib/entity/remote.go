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

// Ensure RemoteDetector implements the Detector interface
var _ Detector = (*RemoteDetector)(nil)

// RemoteDetector calls an externally served NER model over HTTP. The
// service accepts {"sequences": [[...]]} and returns one detection
// sequence per input sequence, in input order.
type RemoteDetector struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewRemoteDetector builds a detector client. A nil client uses a
// default with a 60s timeout.
func NewRemoteDetector(url string, client *http.Client, logger *zap.Logger) *RemoteDetector {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteDetector{url: url, client: client, logger: logger}
}

type detectRequest struct {
	Sequences [][]string `json:"sequences"`
}

type detectResponse struct {
	Detections [][]Detection `json:"detections"`
}

func (r *RemoteDetector) Extract(ctx context.Context, sequences [][]string) ([][]Detection, error) {
	var body bytes.Buffer
	if err := encoder.NewStreamEncoder(&body).Encode(detectRequest{Sequences: sequences}); err != nil {
		return nil, fmt.Errorf("encoding detector request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, &body)
	if err != nil {
		return nil, fmt.Errorf("building detector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling detector: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("detector returned %d: %s", resp.StatusCode, payload)
	}

	var decoded detectResponse
	if err := decoder.NewStreamDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding detector response: %w", err)
	}
	if len(decoded.Detections) != len(sequences) {
		return nil, fmt.Errorf("detector returned %d sequences for %d inputs",
			len(decoded.Detections), len(sequences))
	}

	r.logger.Debug("Remote detection complete",
		zap.Int("num_sequences", len(sequences)),
		zap.Duration("elapsed", time.Since(start)))
	return decoded.Detections, nil
}

func (r *RemoteDetector) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
