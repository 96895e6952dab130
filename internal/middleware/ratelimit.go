package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/logger"

	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

type RateLimitOptions struct {
	RPS   float64
	Burst int
	// IdleTTL: un cliente sin requests por este tiempo pierde su limiter.
	IdleTTL time.Duration
}

// RateLimit aplica un token bucket por IP de cliente, tomada de RemoteAddr.
// Solo refleja X-Forwarded-For / X-Real-IP si el router montó chimw.RealIP
// (proxy de confianza).
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	limiters := newIPLimiter(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiters.allow(key) {
				logger.FromContext(r.Context()).Warn("rate limit exceeded", map[string]any{
					"client": key,
					"path":   r.URL.Path,
				})
				httpx.Error(w, r, apperr.TooManyRequests("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter guarda un limiter por cliente y barre los inactivos en línea,
// a lo sumo una vez por idleTTL.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(opts RateLimitOptions) *ipLimiter {
	burst := opts.Burst
	if burst <= 0 {
		burst = 5
	}
	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = defaultLimiterIdleTTL
	}
	// Un limiter se descarta recién cuando ya se recargó entero; borrarlo
	// antes le regalaría tokens al cliente.
	if opts.RPS > 0 {
		if refill := time.Duration(float64(burst) / opts.RPS * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}

	return &ipLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(opts.RPS),
		burst:   burst,
		idleTTL: ttl,
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	}
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep requiere el lock.
func (l *ipLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
