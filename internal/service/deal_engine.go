package service

import (
	"github.com/fairyhunter13/deal-engine/pkg/clock"
)

// EngineOptions tunes DealEngine behaviour.
type EngineOptions struct {
	// PreserveForcedPriority keeps a HIGH priority forced by a first-time match
	// or imminent expiry instead of letting the final confidence thresholds
	// overwrite it. Off by default: the threshold recompute wins.
	PreserveForcedPriority bool
}

// DealEngine validates deals, computes discounts and ranks recommendations.
// It holds no mutable state and is safe for concurrent use.
type DealEngine struct {
	clock clock.Clock
	opts  EngineOptions
}

// NewDealEngine creates a DealEngine reading time from c.
func NewDealEngine(c clock.Clock, opts EngineOptions) *DealEngine {
	if c == nil {
		c = clock.NewReal()
	}
	return &DealEngine{clock: c, opts: opts}
}
