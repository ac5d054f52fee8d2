package ratelimit

import (
	"context"
	"time"
)

// Default tier policies.
var (
	GeneralRule = Rule{Limit: 100, Window: 15 * time.Minute}
	ReadRule    = Rule{Limit: 60, Window: time.Minute}
	WriteRule   = Rule{Limit: 20, Window: time.Minute}
	CreateRule  = Rule{Limit: 10, Window: time.Minute}
	AuthRule    = Rule{Limit: 5, Window: 15 * time.Minute}
)

// Tiers bundles the limiters the HTTP layer applies per route class.
// General applies to all API traffic; Read, Write and Create stack on top of
// it for the matching operations; Auth guards login and registration and
// counts only failed attempts.
type Tiers struct {
	General *Limiter
	Read    *Limiter
	Write   *Limiter
	Create  *Limiter
	Auth    *Limiter
}

// NewTiers builds the default tier set.
func NewTiers() *Tiers {
	return &Tiers{
		General: New(GeneralRule),
		Read:    New(ReadRule),
		Write:   New(WriteRule),
		Create:  New(CreateRule),
		Auth:    New(AuthRule),
	}
}

// StartCleanup launches one pruning worker per limiter; the workers stop when
// the context is cancelled.
func (t *Tiers) StartCleanup(ctx context.Context, interval time.Duration) {
	for _, l := range []*Limiter{t.General, t.Read, t.Write, t.Create, t.Auth} {
		go l.Cleanup(ctx, interval)
	}
}
