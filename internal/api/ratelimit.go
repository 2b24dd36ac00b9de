package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Action endpoints all funnel into one session mutex, so a runaway client
// gets 429s instead of a queue of blocked handlers.
const (
	actionRateLimit  = 120
	actionRateWindow = time.Second
)

// limiter counts requests per client address over a fixed window.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

type clientWindow struct {
	remaining int
	openedAt  time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
}

// allow reports whether addr may make another request in the current window.
func (l *limiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[addr]
	if !ok || now.Sub(c.openedAt) >= l.window {
		if len(l.clients) > 1024 {
			l.prune(now)
		}
		l.clients[addr] = &clientWindow{remaining: l.limit - 1, openedAt: now}
		return true
	}
	if c.remaining > 0 {
		c.remaining--
		return true
	}
	return false
}

// retryAfter returns whole seconds until addr's window resets.
func (l *limiter) retryAfter(addr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[addr]
	if !ok {
		return 0
	}
	left := l.window - time.Since(c.openedAt)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

// prune drops windows stale by more than a full cycle. Callers hold l.mu.
func (l *limiter) prune(now time.Time) {
	for addr, c := range l.clients {
		if now.Sub(c.openedAt) > 2*l.window {
			delete(l.clients, addr)
		}
	}
}

// clientAddr picks the address to meter, preferring the first
// X-Forwarded-For hop when a proxy sits in front.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// throttle wraps a handler, answering 429 with Retry-After once a client
// exhausts its window.
func (l *limiter) throttle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)
		if !l.allow(addr) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfter(addr)))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			return
		}
		next(w, r)
	}
}
