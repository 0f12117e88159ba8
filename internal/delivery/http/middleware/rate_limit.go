package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "slotbooking/internal/delivery/http/helpers"
)

const (
	// limiterIdleTTL is how long a client's bucket survives without requests.
	limiterIdleTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	rps        rate.Limit
	burst      int
	trustProxy bool
	lastSweep  time.Time
	now        func() time.Time
	logger     *slog.Logger
}

// NewRateLimiter returns a limiter allowing rps requests per second per IP with the given burst.
// X-Forwarded-For is only consulted when trustProxy is set; otherwise clients are keyed by RemoteAddr.
func NewRateLimiter(rps float64, burst int, trustProxy bool, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*clientLimiter),
		rps:        rate.Limit(rps),
		burst:      burst,
		trustProxy: trustProxy,
		lastSweep:  time.Now(),
		now:        time.Now,
		logger:     logger,
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep drops buckets idle for longer than limiterIdleTTL. Must be called with mu held.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// size reports the number of tracked clients.
func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Wrap rejects requests over the limit with 429.
func (l *RateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trustProxy)
		if !l.limiter(ip).Allow() {
			l.logger.WarnContext(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next(w, r)
	}
}

// clientIP returns the host of RemoteAddr, or the first X-Forwarded-For hop when
// the service runs behind a trusted proxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
