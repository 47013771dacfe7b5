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
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Ensure PooledDetector implements the Detector interface
var _ Detector = (*PooledDetector)(nil)

// PooledDetectorConfig holds configuration for creating a PooledDetector.
type PooledDetectorConfig struct {
	// PoolSize determines how many concurrent requests can be processed
	// (0 = auto-detect from CPU count).
	PoolSize int

	// Logger for logging (nil = no logging).
	Logger *zap.Logger
}

// PooledDetector multiplexes requests over N detector instances.
// Detectors are not thread-safe by default; the pool serializes access
// to each instance with a semaphore and round-robin selection.
type PooledDetector struct {
	detectors []Detector
	sem       *semaphore.Weighted
	next      atomic.Uint64
	logger    *zap.Logger
	poolSize  int
}

// NewPooledDetector creates poolSize detector instances via newDetector.
func NewPooledDetector(cfg PooledDetectorConfig, newDetector func() (Detector, error)) (*PooledDetector, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	logger.Info("Initializing pooled detector", zap.Int("poolSize", poolSize))

	detectors := make([]Detector, poolSize)
	for i := 0; i < poolSize; i++ {
		d, err := newDetector()
		if err != nil {
			for j := 0; j < i; j++ {
				_ = detectors[j].Close()
			}
			return nil, fmt.Errorf("creating detector %d: %w", i, err)
		}
		detectors[i] = d
	}

	return &PooledDetector{
		detectors: detectors,
		sem:       semaphore.NewWeighted(int64(poolSize)),
		logger:    logger,
		poolSize:  poolSize,
	}, nil
}

// Extract acquires a pool slot and delegates to one detector instance.
func (p *PooledDetector) Extract(ctx context.Context, sequences [][]string) ([][]Detection, error) {
	if len(sequences) == 0 {
		return nil, nil
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquiring detector slot: %w", err)
	}
	defer p.sem.Release(1)

	idx := int(p.next.Add(1) % uint64(p.poolSize))
	p.logger.Debug("Using pooled detector",
		zap.Int("index", idx),
		zap.Int("num_sequences", len(sequences)))

	out, err := p.detectors[idx].Extract(ctx, sequences)
	if err != nil {
		return nil, fmt.Errorf("pooled detector %d: %w", idx, err)
	}
	return out, nil
}

// Close releases all detector instances.
func (p *PooledDetector) Close() error {
	var lastErr error
	for i, d := range p.detectors {
		if d != nil {
			if err := d.Close(); err != nil {
				p.logger.Warn("Failed to close detector", zap.Int("index", i), zap.Error(err))
				lastErr = err
			}
		}
	}
	p.detectors = nil
	return lastErr
}
