package main

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per caller address. Room
// creation burns through the finite code space, so it is the one
// endpoint worth throttling per IP.
type ipLimiter struct {
	mu    sync.Mutex
	seen  map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		seen:  make(map[string]*rate.Limiter),
		limit: limit,
		burst: burst,
	}
}

func (l *ipLimiter) allow(addr string) bool {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	l.mu.Lock()
	lim, ok := l.seen[addr]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.seen[addr] = lim
	}
	l.mu.Unlock()

	return lim.Allow()
}

func (l *ipLimiter) allowRequest(r *http.Request) bool {
	return l.allow(realIP(r))
}
