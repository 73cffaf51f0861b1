// Copyright 2025 go-highway Authors
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

package kernel

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ajroetker/go-lanemath/lane"
)

// Bounds for Config.BatchLanes.
const (
	minBatchLanes = 1
	maxBatchLanes = 1 << 20
)

// Config controls how an Engine spreads lanes over its worker pool.
type Config struct {
	// Workers is the size of the worker pool. Zero means GOMAXPROCS.
	Workers int

	// BatchLanes is the number of lanes a worker claims at a time, and the
	// granularity at which cancellation is observed. Zero selects a default
	// sized to the detected vector width.
	BatchLanes int

	// ParallelThreshold is the element count (lanes times width) below
	// which an invocation runs on the calling goroutine. Zero selects a
	// default; a negative value always uses the pool.
	ParallelThreshold int
}

// DefaultConfig returns the configuration used when no override is given.
// Batch sizes scale with the number of float32 elements per vector register.
func DefaultConfig() Config {
	vec := max(lane.MaxLanes(lane.Float32), 1)
	return Config{
		Workers:           0,
		BatchLanes:        vec * 256,
		ParallelThreshold: vec * 1024,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by LANEMATH_WORKERS,
// LANEMATH_BATCH and LANEMATH_PARALLEL_THRESHOLD. Unset variables keep
// their defaults; malformed ones are an error.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"LANEMATH_WORKERS", &cfg.Workers},
		{"LANEMATH_BATCH", &cfg.BatchLanes},
		{"LANEMATH_PARALLEL_THRESHOLD", &cfg.ParallelThreshold},
	} {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("kernel: %s: %w", v.name, err)
		}
		*v.dst = n
	}
	return cfg, nil
}

// normalized fills zero fields with defaults and clamps the batch size.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.BatchLanes == 0 {
		c.BatchLanes = def.BatchLanes
	}
	c.BatchLanes = lane.Clamp(c.BatchLanes, minBatchLanes, maxBatchLanes)
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = def.ParallelThreshold
	}
	return c
}
