package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitError is a synthesis provider's 429. RetryAfter is the server's
// hint, zero when it sent none.
type RateLimitError struct {
	Provider   string
	Message    string
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	switch {
	case e.Provider != "" && e.Message != "":
		return fmt.Sprintf("%s rate limit: %s", e.Provider, e.Message)
	case e.Message != "":
		return e.Message
	default:
		return "rate limit"
	}
}

func IsRateLimit(err error) bool {
	var rl RateLimitError
	return errors.As(err, &rl)
}

// RateLimitFromResponse builds a RateLimitError from a 429 response, reading
// Retry-After in either its seconds or HTTP-date form.
func RateLimitFromResponse(provider string, resp *http.Response) RateLimitError {
	rl := RateLimitError{Provider: provider, Message: resp.Status}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return rl
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		rl.RetryAfter = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			rl.RetryAfter = d
		}
	}
	return rl
}

// CircuitBreaker stops synthesis calls for a cooldown after threshold
// consecutive rate-limit failures. It never retries on its own.
type CircuitBreaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	openUntil time.Time
	cooldown  time.Duration
	now       func() time.Time
}

func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

func (c *CircuitBreaker) Allow() bool {
	return c.RetryIn() == 0
}

// RetryIn is how long the breaker stays open, zero when closed.
func (c *CircuitBreaker) RetryIn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d := c.openUntil.Sub(c.now()); d > 0 {
		return d
	}
	return 0
}

func (c *CircuitBreaker) OnSuccess() {
	c.mu.Lock()
	c.failures = 0
	c.openUntil = time.Time{}
	c.mu.Unlock()
}

// OnError counts rate-limit failures; other errors leave the breaker alone.
// A server Retry-After longer than the cooldown extends the open window.
func (c *CircuitBreaker) OnError(err error) {
	var rl RateLimitError
	if !errors.As(err, &rl) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.failures >= c.threshold {
		c.openUntil = c.now().Add(max(c.cooldown, rl.RetryAfter))
		c.failures = 0
	}
}
