// Package motion reads accelerometer samples and classifies shakes.
package motion

import (
	"context"
	"errors"
	"sync"
	"time"

	"cogentcore.org/core/math32"
)

// DefaultInterval is the sampling period used when Poll is given zero.
const DefaultInterval = 100 * time.Millisecond

// ErrUnavailable is returned by Poll when the sensor is missing.
var ErrUnavailable = errors.New("motion: accelerometer unavailable")

// Reading is one accelerometer sample in g.
type Reading struct {
	X, Y, Z   float32
	Timestamp time.Time
}

// Vector returns the sample as a vector.
func (r Reading) Vector() math32.Vector3 {
	return math32.Vec3(r.X, r.Y, r.Z)
}

// Magnitude is the length of the acceleration vector. A device at rest reads about 1.
func (r Reading) Magnitude() float32 {
	return r.Vector().Length()
}

// IsShaking reports whether the magnitude exceeds threshold.
func (r Reading) IsShaking(threshold float32) bool {
	return r.Magnitude() > threshold
}

// ShakeIntensity maps magnitude to at most 1: 0 at rest, 1 at 3 g and above.
// Readings below 1 g give negative values.
func (r Reading) ShakeIntensity() float32 {
	return math32.Min((r.Magnitude()-1)/2, 1)
}

// Sensor is an accelerometer.
type Sensor interface {
	Available() bool
	Read() (Reading, error)
}

// Poll calls fn with a reading every interval until ctx is done. Read errors are skipped.
func Poll(ctx context.Context, s Sensor, interval time.Duration, fn func(Reading)) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r, err := s.Read()
			if err != nil {
				continue
			}
			fn(r)
		}
	}
}

// Simulated is a sensor fed by hand. Pushed readings are returned in order, once each;
// with nothing queued it reads rest (0, 0, 1).
type Simulated struct {
	mu      sync.Mutex
	pending []Reading
	Off     bool
}

// Push queues a reading.
func (s *Simulated) Push(x, y, z float32) {
	s.mu.Lock()
	s.pending = append(s.pending, Reading{X: x, Y: y, Z: z, Timestamp: time.Now()})
	s.mu.Unlock()
}

func (s *Simulated) Available() bool { return !s.Off }

func (s *Simulated) Read() (Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return Reading{Z: 1, Timestamp: time.Now()}, nil
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, nil
}
