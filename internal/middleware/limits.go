package middleware

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMaxBodyBytes is the request body cap (64 KiB).
const DefaultMaxBodyBytes = 64 << 10

// MaxBytes limits the request body size. Reads past maxBytes fail and the handler answers 413.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// defaultIdleTTL is how long an IP may stay silent before its bucket is dropped.
const defaultIdleTTL = 10 * time.Minute

type ipEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter limits requests per client IP using a token bucket per IP.
// Idle buckets are swept on access, at most once per idleTTL.
type IPRateLimiter struct {
	ips       map[string]*ipEntry
	mu        sync.RWMutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a per-IP rate limiter. limit is events per second;
// for N per minute use rate.Limit(float64(N)/60.0). burst is max tokens per bucket.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*ipEntry),
		limit:     limit,
		burst:     burst,
		idleTTL:   defaultIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// AuthRateLimiter returns a limiter suitable for login/register: 10 requests per minute per IP, burst 5.
func AuthRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(10.0/60.0), 5)
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := l.now()

	l.mu.RLock()
	e, ok := l.ips[ip]
	l.mu.RUnlock()
	if ok {
		e.lastSeen.Store(now.UnixNano())
		return e.lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok = l.ips[ip]; ok {
		e.lastSeen.Store(now.UnixNano())
		return e.lim
	}
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}
	e = &ipEntry{lim: rate.NewLimiter(l.limit, l.burst)}
	e.lastSeen.Store(now.UnixNano())
	l.ips[ip] = e
	return e.lim
}

// sweep drops idle buckets. Caller holds l.mu for writing.
func (l *IPRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idleTTL).UnixNano()
	for ip, e := range l.ips {
		if e.lastSeen.Load() < cutoff {
			delete(l.ips, ip)
		}
	}
	l.lastSweep = now
}

func (l *IPRateLimiter) size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ips)
}

// clientIP returns the host part of RemoteAddr. When TRUST_PROXY is set, chi's RealIP
// middleware has already replaced RemoteAddr with the forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns 429 when the client IP exceeds the rate.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
