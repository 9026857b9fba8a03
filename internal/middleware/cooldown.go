package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"initial-bot/internal/command"
	"initial-bot/pkg/cmd"

	"golang.org/x/time/rate"
)

// ErrCooldown is recorded in history and logged but never answered.
var ErrCooldown = fmt.Errorf("sending commands too fast: %w", command.ErrSilent)

// idleLimiterTTL is how long an unused per-user limiter is kept.
const idleLimiterTTL = 10 * time.Minute

// Cooldown hands out one token bucket per user.
type Cooldown struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*userLimiter
	now      func() time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewCooldown allows each user perSecond commands per second with the given burst.
func NewCooldown(perSecond float64, burst int) *Cooldown {
	if burst < 1 {
		burst = 1
	}
	return &Cooldown{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*userLimiter),
		now:      time.Now,
	}
}

// Allow reports whether userID may run a command now.
func (cd *Cooldown) Allow(userID string) bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	now := cd.now()
	ul, ok := cd.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(cd.limit, cd.burst)}
		cd.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle for longer than idleLimiterTTL.
func (cd *Cooldown) Sweep() {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cutoff := cd.now().Add(-idleLimiterTTL)
	for id, ul := range cd.limiters {
		if ul.lastSeen.Before(cutoff) {
			delete(cd.limiters, id)
		}
	}
}

// Run sweeps idle limiters every minute until ctx is done.
func (cd *Cooldown) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cd.Sweep()
		}
	}
}

// WithCooldown rejects commands from users exceeding their rate.
func WithCooldown(cd *Cooldown) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if mc := messageContext(inv); mc != nil && mc.Event.Author != nil {
				if !cd.Allow(mc.Event.Author.ID) {
					return ErrCooldown
				}
			}
			return c.Run(ctx, inv)
		})
	}
}
