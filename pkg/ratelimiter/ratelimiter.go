package ratelimiter

import (
	"sync"
	"time"
)

// RatePolicy bounds the number of attempts a key may make within a window.
type RatePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

type bucketKey struct {
	namespace string
	key       string
}

// RateLimiter is an in-memory sliding-window limiter. Each namespace carries
// its own policy; keys within a namespace are tracked independently.
//
//	rl := ratelimiter.NewRateLimiter()
//	rl.SetPolicy("onboarding", 60, time.Minute)
//	if !rl.Allow("onboarding", userID) {
//	    // reject with Retry-After: rl.RetryAfter("onboarding", userID)
//	}
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[bucketKey][]time.Time
	policies map[string]RatePolicy
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter and starts a sweeper that drops keys with
// no attempts left inside their window.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[bucketKey][]time.Time),
		policies: make(map[string]RatePolicy),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.sweepLoop(time.Minute)

	return rl
}

// SetPolicy configures a namespace. Replacing a policy keeps recorded attempts.
func (rl *RateLimiter) SetPolicy(namespace string, maxAttempts int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[namespace] = RatePolicy{
		MaxAttempts: maxAttempts,
		Window:      window,
	}
}

// Allow records an attempt and reports whether it fits the namespace policy.
// Namespaces without a policy are denied.
func (rl *RateLimiter) Allow(namespace, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return false
	}

	now := rl.now()
	k := bucketKey{namespace: namespace, key: key}
	valid := prune(rl.attempts[k], now.Add(-policy.Window))

	if len(valid) >= policy.MaxAttempts {
		rl.attempts[k] = valid
		return false
	}

	rl.attempts[k] = append(valid, now)
	return true
}

// Reset forgets every attempt recorded for key in namespace.
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, bucketKey{namespace: namespace, key: key})
}

// RetryAfter returns how long until the oldest attempt in the window expires,
// rounded up to whole seconds. Zero when nothing is recorded.
func (rl *RateLimiter) RetryAfter(namespace, key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return 0
	}

	now := rl.now()
	valid := prune(rl.attempts[bucketKey{namespace: namespace, key: key}], now.Add(-policy.Window))
	if len(valid) == 0 {
		return 0
	}

	remaining := valid[0].Add(policy.Window).Sub(now)
	if remaining <= 0 {
		return 0
	}
	return remaining.Truncate(time.Second) + time.Second
}

// Stop ends the sweeper. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, list := range rl.attempts {
		policy, ok := rl.policies[k.namespace]
		if !ok {
			delete(rl.attempts, k)
			continue
		}
		if len(prune(list, now.Add(-policy.Window))) == 0 {
			delete(rl.attempts, k)
		}
	}
}

// prune returns the attempts strictly after cutoff. Attempts are appended in
// time order, so the result is a suffix of list.
func prune(list []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(list) && !list[i].After(cutoff) {
		i++
	}
	return list[i:]
}
