// Package vireocfg holds runtime-wide tunables, loadable from a JSON file
// for embedding applications. Grounded on the teacher's internal/config
// JSON-backed config struct with documented defaults.
package vireocfg

import (
	"encoding/json"
	"os"
)

// ConfigFileName is the conventional name for an on-disk runtime config.
const ConfigFileName = "vireo.json"

// Defaults mirroring the capacity limits referenced throughout the spec.
const (
	DefaultMaxMutationBuffer = 1 << 20 // 1 MiB per flush
	DefaultMaxTemplateDepth  = 64
	DefaultMaxPathLen        = 255 // path entries are u8-indexed (spec §9)
	DefaultMaxDrainPerFrame  = 10_000
)

// RuntimeConfig holds tunables for a Runtime.
type RuntimeConfig struct {
	// MaxMutationBuffer caps the size of a single mutation buffer; writes
	// that would exceed it are refused (spec §7, "Backpressure / capacity").
	MaxMutationBuffer int `json:"maxMutationBuffer,omitempty"`

	// MaxTemplateDepth caps template tree depth accepted by the registry.
	MaxTemplateDepth uint8 `json:"maxTemplateDepth,omitempty"`

	// MaxPathLen caps AssignId/ReplacePlaceholder path length.
	MaxPathLen uint8 `json:"maxPathLen,omitempty"`

	// MaxDrainPerFrame bounds how many dirty scopes the Scheduler drains
	// in one frame before yielding, to keep a storm of signal writes from
	// blocking the host indefinitely (spec §7 capacity bucket, extended to
	// the scheduler per SPEC_FULL.md §C).
	MaxDrainPerFrame int `json:"maxDrainPerFrame,omitempty"`
}

// DefaultRuntimeConfig returns the conservative built-in defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		MaxMutationBuffer: DefaultMaxMutationBuffer,
		MaxTemplateDepth:  DefaultMaxTemplateDepth,
		MaxPathLen:        DefaultMaxPathLen,
		MaxDrainPerFrame:  DefaultMaxDrainPerFrame,
	}
}

// Load reads a RuntimeConfig from a JSON file, filling any zero fields
// from DefaultRuntimeConfig.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var partial RuntimeConfig
	if err := json.Unmarshal(data, &partial); err != nil {
		return cfg, err
	}

	if partial.MaxMutationBuffer != 0 {
		cfg.MaxMutationBuffer = partial.MaxMutationBuffer
	}
	if partial.MaxTemplateDepth != 0 {
		cfg.MaxTemplateDepth = partial.MaxTemplateDepth
	}
	if partial.MaxPathLen != 0 {
		cfg.MaxPathLen = partial.MaxPathLen
	}
	if partial.MaxDrainPerFrame != 0 {
		cfg.MaxDrainPerFrame = partial.MaxDrainPerFrame
	}

	return cfg, nil
}
