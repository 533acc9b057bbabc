package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

// Rule is a named request threshold: at most Limit requests per Window.
// A Limit of zero or less means unlimited.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Unlimited reports whether the rule never denies.
func (r Rule) Unlimited() bool {
	return r.Limit <= 0 || r.Window <= 0
}

// Decision is the outcome of one Check.
type Decision struct {
	Allowed bool

	// Count is the number of requests seen in the current window, this one included.
	Count     int
	Limit     int
	Remaining int

	// RetryAfter is how long a denied client should wait, in whole seconds.
	RetryAfter time.Duration

	// ResetAt is when the current window closes.
	ResetAt time.Time
}

// RetryAfterSeconds returns RetryAfter as an integer number of seconds.
func (d Decision) RetryAfterSeconds() int {
	return int(d.RetryAfter / time.Second)
}

// Window is a counter snapshot returned by a CounterStore.
type Window struct {
	Count int
	Start time.Time
}

// CounterStore increments fixed-window counters.
type CounterStore interface {
	// Increment adds one to the counter at key and returns its new state.
	// The counter restarts at 1 with Start=now when no window is open or the
	// open one has lasted at least window.
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)
}

// Pruner is implemented by stores that hold expired counters in memory.
type Pruner interface {
	// Prune drops counters whose window has elapsed and returns how many it removed.
	Prune(now time.Time) int
}

// DefaultRetryAfterFloor is the smallest Retry-After ever reported.
const DefaultRetryAfterFloor = time.Second

// Limiter applies rules to clients.
type Limiter struct {
	store  CounterStore
	rules  map[string]Rule
	floor  time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithRetryAfterFloor sets the minimum reported retry-after.
func WithRetryAfterFloor(d time.Duration) Option {
	return func(l *Limiter) { l.floor = d }
}

// WithLogger sets the logger used for store failures.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Limiter) { l.logger = lg }
}

// NewLimiter creates a Limiter over store with the given named rules.
func NewLimiter(store CounterStore, rules []Rule, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		rules:  make(map[string]Rule, len(rules)),
		floor:  DefaultRetryAfterFloor,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, r := range rules {
		l.rules[r.Name] = r
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("component", "rate_limiter"))
	return l
}

// Rule looks up a configured rule by name.
func (l *Limiter) Rule(name string) (Rule, bool) {
	r, ok := l.rules[name]
	return r, ok
}

// Allow checks clientKey against the named rule. Unknown rules never deny.
func (l *Limiter) Allow(ctx context.Context, clientKey, ruleName string) Decision {
	rule, ok := l.rules[ruleName]
	if !ok {
		return Decision{Allowed: true}
	}
	return l.Check(ctx, clientKey, rule)
}

// Check counts one request from clientKey against rule and decides whether it
// may proceed. Check never fails: if the counter store errors the request is
// allowed and the failure is logged.
func (l *Limiter) Check(ctx context.Context, clientKey string, rule Rule) Decision {
	if rule.Unlimited() {
		return Decision{Allowed: true}
	}

	now := l.now()
	w, err := l.store.Increment(ctx, counterKey(clientKey, rule.Name), rule.Window, now)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Warn("rate limit store unavailable, allowing request",
			slog.String("rule", rule.Name),
			slog.String("client", clientKey),
			slog.String("error", err.Error()))
		return Decision{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}
	}

	resetAt := w.Start.Add(rule.Window)
	d := Decision{
		Allowed:    w.Count <= rule.Limit,
		Count:      w.Count,
		Limit:      rule.Limit,
		Remaining:  max(rule.Limit-w.Count, 0),
		ResetAt:    resetAt,
		RetryAfter: l.retryAfter(resetAt.Sub(now)),
	}
	return d
}

func (l *Limiter) retryAfter(remaining time.Duration) time.Duration {
	secs := time.Duration(math.Ceil(remaining.Seconds())) * time.Second
	if secs < l.floor {
		return l.floor
	}
	return secs
}

// RunJanitor prunes expired counters every interval until ctx is cancelled.
// It returns immediately when the store does not hold counters in memory.
func (l *Limiter) RunJanitor(ctx context.Context, interval time.Duration) {
	p, ok := l.store.(Pruner)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Prune(l.now()); n > 0 {
				l.logger.Debug("pruned expired rate limit counters", slog.Int("count", n))
			}
		}
	}
}

func counterKey(client, rule string) string {
	return rule + ":" + client
}
