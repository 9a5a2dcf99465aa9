package motion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 1, Reading{Z: 1}.Magnitude(), 1e-6)
	assert.InDelta(t, 3, Reading{X: 2, Y: 2, Z: 1}.Magnitude(), 1e-6)
}

func TestIsShaking(t *testing.T) {
	assert.False(t, Reading{Z: 1}.IsShaking(1.8))
	assert.False(t, Reading{Z: 1.8}.IsShaking(1.8))
	assert.True(t, Reading{Z: 1.81}.IsShaking(1.8))
}

func TestShakeIntensity(t *testing.T) {
	assert.InDelta(t, 0, Reading{Z: 1}.ShakeIntensity(), 1e-6)
	assert.InDelta(t, 0.5, Reading{Z: 2}.ShakeIntensity(), 1e-6)
	assert.InDelta(t, 1, Reading{Z: 9}.ShakeIntensity(), 1e-6)
	assert.Less(t, Reading{}.ShakeIntensity(), float32(0))
}

func TestPollUnavailable(t *testing.T) {
	err := Poll(context.Background(), &Simulated{Off: true}, 0, func(Reading) {})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPollDeliversPushedReadings(t *testing.T) {
	s := &Simulated{}
	s.Push(3, 0, 0)
	s.Push(0, 2, 0)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Reading, 8)
	done := make(chan error, 1)
	go func() {
		done <- Poll(ctx, s, time.Millisecond, func(r Reading) { got <- r })
	}()

	first := <-got
	second := <-got
	third := <-got
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, float32(3), first.X)
	assert.Equal(t, float32(2), second.Y)
	assert.InDelta(t, 1, third.Magnitude(), 1e-6)
}
