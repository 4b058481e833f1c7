package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 16)
	for _, c := range code {
		assert.Contains(t, "0123456789ABCDEF", string(c))
	}

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("razorpay")

	assert.Equal(t, "razorpay", cb.name)
	assert.Equal(t, uint32(100), cb.maxRequests)
	assert.Equal(t, 60*time.Second, cb.interval)
	assert.Equal(t, 60*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.state)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")

	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	wantErr := errors.New("gateway down")

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
	assert.Equal(t, uint32(1), cb.counts.ConsecutiveFailures)
}

func TestCircuitBreaker_TripsOpen(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 5

	for i := 0; i < 5; i++ {
		cb.Execute(context.Background(), func() (any, error) {
			return nil, errors.New("down")
		})
	}

	assert.Equal(t, StateOpen, cb.state)

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return "should not run", nil
	})
	assert.Error(t, err)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 2
	cb.timeout = time.Millisecond

	for i := 0; i < 2; i++ {
		cb.Execute(context.Background(), func() (any, error) {
			return nil, errors.New("down")
		})
	}
	assert.Equal(t, StateOpen, cb.state)

	time.Sleep(5 * time.Millisecond)

	// The timeout elapsed; a successful probe closes the breaker again.
	_, err := cb.Execute(context.Background(), func() (any, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.state)
}
