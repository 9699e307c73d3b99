package lark

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_WaitPassesWhenIdle tests the unthrottled fast path
func TestRateLimiter_WaitPassesWhenIdle(t *testing.T) {
	limiter := NewRateLimiter()

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

// TestRateLimiter_RespectsRetryAfter tests the reactive backoff
func TestRateLimiter_RespectsRetryAfter(t *testing.T) {
	limiter := NewRateLimiter()

	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{HeaderRetryAfter: []string{"1"}},
	}
	limiter.UpdateFromResponse(resp)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

// TestRateLimiter_IgnoresSuccessResponses tests that 200s never throttle
func TestRateLimiter_IgnoresSuccessResponses(t *testing.T) {
	limiter := NewRateLimiter()

	limiter.UpdateFromResponse(&http.Response{StatusCode: http.StatusOK, Header: http.Header{}})
	limiter.UpdateFromResponse(nil)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

// TestRateLimiter_ContextCancellation tests that a cancelled context
// interrupts the backoff
func TestRateLimiter_ContextCancellation(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.UpdateFromResponse(&http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{HeaderRetryAfter: []string{"30"}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
