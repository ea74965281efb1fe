package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepSize     = 1024
	limiterSweepInterval = time.Minute
	defaultMaxClients    = 16384
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client key.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	now     func() time.Time

	maxClients int
	lastSweep  time.Time
}

// NewClientLimiter allows perSecond writes per client with the given burst.
// A non-positive perSecond disables limiting.
func NewClientLimiter(perSecond float64, burst int) *ClientLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,

		maxClients: defaultMaxClients,
	}
}

func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.buckets) >= limiterSweepSize && now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxClients {
			l.evictOldest()
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets idle long enough to have refilled.
func (l *ClientLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(l.buckets, key)
		}
	}
}

// evictOldest drops the least recently seen bucket to stay under maxClients.
func (l *ClientLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, b := range l.buckets {
		if !found || b.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, b.lastSeen, true
		}
	}
	if found {
		delete(l.buckets, oldestKey)
	}
}

// Len reports how many clients are tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
