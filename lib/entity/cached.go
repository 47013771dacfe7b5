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
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DetectionCacheTTL is the default TTL for cached detector output.
const DetectionCacheTTL = 2 * time.Minute

// Ensure CachedDetector implements the Detector interface
var _ Detector = (*CachedDetector)(nil)

// CachedDetector wraps a detector with TTL caching keyed by the hash of
// the input sequences. Concurrent identical requests are deduplicated
// with singleflight.
type CachedDetector struct {
	detector Detector
	cache    *ttlcache.Cache[string, [][]Detection]
	sfGroup  *singleflight.Group
	logger   *zap.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewDetectionCache creates the TTL cache used by CachedDetector.
func NewDetectionCache(ttl time.Duration) *ttlcache.Cache[string, [][]Detection] {
	if ttl <= 0 {
		ttl = DetectionCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, [][]Detection](ttl),
	)
	go cache.Start()
	return cache
}

// NewCachedDetector wraps a detector with caching.
func NewCachedDetector(detector Detector, cache *ttlcache.Cache[string, [][]Detection], logger *zap.Logger) *CachedDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDetector{
		detector: detector,
		cache:    cache,
		sfGroup:  &singleflight.Group{},
		logger:   logger,
	}
}

// Extract returns cached detections when available.
func (c *CachedDetector) Extract(ctx context.Context, sequences [][]string) ([][]Detection, error) {
	key := cacheKey(sequences)

	if item := c.cache.Get(key); item != nil {
		c.hits.Add(1)
		c.logger.Debug("Detection cache hit", zap.Int("num_sequences", len(sequences)))
		return item.Value(), nil
	}

	result, err, shared := c.sfGroup.Do(key, func() (any, error) {
		c.misses.Add(1)
		detections, err := c.detector.Extract(ctx, sequences)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, detections, ttlcache.DefaultTTL)
		return detections, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cached detector: %w", err)
	}
	if shared {
		c.logger.Debug("Detection request deduplicated")
	}
	return result.([][]Detection), nil
}

// Stats returns cache hit/miss counters.
func (c *CachedDetector) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the cache and releases the wrapped detector.
func (c *CachedDetector) Close() error {
	c.cache.Stop()
	return c.detector.Close()
}

// cacheKey hashes sequences with length-prefixed terms so distinct
// splits never collide.
func cacheKey(sequences [][]string) string {
	h := xxhash.New()
	var buf [8]byte
	for _, seq := range sequences {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(seq)))
		_, _ = h.Write(buf[:])
		for _, term := range seq {
			binary.LittleEndian.PutUint64(buf[:], uint64(len(term)))
			_, _ = h.Write(buf[:])
			_, _ = h.WriteString(term)
		}
	}
	return fmt.Sprintf("%x", h.Sum64())
}
