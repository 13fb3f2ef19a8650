package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandLimiter(t *testing.T) {
	l := newCommandLimiter(0.001, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("u1"))
	}
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"), "buckets are per user")
}

func TestCommandLimiterDisabled(t *testing.T) {
	l := newCommandLimiter(0, 3)
	assert.Nil(t, l)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("u1"))
	}
}
