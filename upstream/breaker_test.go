package upstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterFiveFailures(t *testing.T) {
	b := NewBreaker()
	now := time.Now()

	for i := 0; i < 4; i++ {
		b.RecordFailure(now)
		assert.Equal(t, StateClosed, b.State())
	}
	b.RecordFailure(now)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow(now))
}

func TestBreakerHalfOpensAfterThirtySeconds(t *testing.T) {
	b := NewBreaker()
	now := time.Now()
	for i := 0; i < 5; i++ {
		b.RecordFailure(now)
	}
	assert.Equal(t, StateOpen, b.State())

	later := now.Add(29 * time.Second)
	assert.False(t, b.Allow(later))

	later = now.Add(30 * time.Second)
	assert.True(t, b.Allow(later))
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreakerClosesAfterThreeSuccessesInHalfOpen(t *testing.T) {
	b := NewBreaker()
	now := time.Now()
	for i := 0; i < 5; i++ {
		b.RecordFailure(now)
	}
	b.Allow(now.Add(30 * time.Second))
	assert.Equal(t, StateHalfOpen, b.State())

	b.RecordSuccess(now)
	b.RecordSuccess(now)
	assert.Equal(t, StateHalfOpen, b.State())
	b.RecordSuccess(now)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerReopensOnFailureInHalfOpen(t *testing.T) {
	b := NewBreaker()
	now := time.Now()
	for i := 0; i < 5; i++ {
		b.RecordFailure(now)
	}
	b.Allow(now.Add(30 * time.Second))
	assert.Equal(t, StateHalfOpen, b.State())

	b.RecordFailure(now)
	assert.Equal(t, StateOpen, b.State())
}
