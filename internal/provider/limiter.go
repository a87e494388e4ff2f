// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing requests. A nil *Limiter never blocks.
type Limiter struct {
	l *rate.Limiter
}

// NewLimiter allows perMinute requests per minute with a burst of one
// minute's quota. perMinute <= 0 returns nil.
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		return nil
	}
	every := rate.Every(time.Minute / time.Duration(perMinute))
	return &Limiter{l: rate.NewLimiter(every, perMinute)}
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}
