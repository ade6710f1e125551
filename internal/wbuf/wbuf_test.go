package wbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAndRelease(t *testing.T) {
	b := New(100)
	granted, ok := b.Allocate(60)
	require.True(t, ok)
	assert.Equal(t, 60, granted)
	assert.Equal(t, 60, b.Used())

	b.Release(60)
	assert.Equal(t, 0, b.Used())
}

func TestAllocateFailsFastAndSignalsPressure(t *testing.T) {
	b := New(100)
	_, ok := b.Allocate(60)
	require.True(t, ok)

	_, ok = b.Allocate(60)
	assert.False(t, ok, "60+60 exceeds the 100-byte capacity")
	assert.Equal(t, 60, b.Used(), "a refused allocation must not change the pool")

	select {
	case p := <-b.PressureCh:
		assert.Equal(t, 60, p.Requested)
		assert.Equal(t, 40, p.Available)
	default:
		t.Fatal("expected a pressure notification")
	}
}
