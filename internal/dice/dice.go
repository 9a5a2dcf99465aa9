// Package dice is the shake-to-roll dice game: a single six-sided die with a roll animation
// window, a cooldown between rolls and a running count.
package dice

import (
	"math/rand"
	"sync"
	"time"

	"burgerstack/internal/motion"
)

const (
	// RollDuration is how long the die tumbles before its value is decided.
	RollDuration = time.Second
	// Cooldown is the pause after a roll lands before another can start.
	Cooldown = 500 * time.Millisecond
	// ShakeThreshold is the acceleration magnitude (in g) that triggers a roll.
	ShakeThreshold = 1.8
)

// Roll returns a face value in [1, 6].
func Roll(r *rand.Rand) int {
	return r.Intn(6) + 1
}

// Euler is a rotation in degrees.
type Euler struct {
	X, Y, Z float32
}

var faces = map[int]Euler{
	1: {0, 0, 0},
	2: {0, 90, 0},
	3: {0, 0, -90},
	4: {0, 0, 90},
	5: {0, -90, 0},
	6: {180, 0, 0},
}

// Rotation is the orientation that shows value on the die's front face.
// Values outside [1, 6] show face 1.
func Rotation(value int) Euler {
	if e, ok := faces[value]; ok {
		return e
	}
	return faces[1]
}

// State is a point-in-time copy of a Game.
type State struct {
	Value   int
	Count   int
	Rolling bool
	CanRoll bool
}

// Game holds one die. Methods are safe for concurrent use; OnRoll runs after each landed roll,
// outside the lock.
type Game struct {
	mu      sync.Mutex
	value   int
	count   int
	rolling bool
	cooling bool
	epoch   int

	rng       *rand.Rand
	afterFunc func(time.Duration, func()) *time.Timer

	RollDuration time.Duration
	Cooldown     time.Duration
	OnRoll       func(State)
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(fn func(time.Duration, func()) *time.Timer) Option {
	return func(g *Game) { g.afterFunc = fn }
}

// NewGame returns a die showing 1 with no rolls.
func NewGame(opts ...Option) *Game {
	g := &Game{
		value:        1,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		afterFunc:    time.AfterFunc,
		RollDuration: RollDuration,
		Cooldown:     Cooldown,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// TryRoll starts a roll unless one is running or the cooldown has not passed.
func (g *Game) TryRoll() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rolling || g.cooling {
		return false
	}
	g.rolling = true
	epoch := g.epoch
	g.afterFunc(g.RollDuration, func() { g.land(epoch) })
	return true
}

func (g *Game) land(epoch int) {
	g.mu.Lock()
	if epoch != g.epoch {
		g.mu.Unlock()
		return
	}
	g.value = Roll(g.rng)
	g.count++
	g.rolling = false
	g.cooling = true
	g.afterFunc(g.Cooldown, func() { g.cooled(epoch) })
	st := g.state()
	onRoll := g.OnRoll
	g.mu.Unlock()

	if onRoll != nil {
		onRoll(st)
	}
}

func (g *Game) cooled(epoch int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch == g.epoch {
		g.cooling = false
	}
}

// OnShake rolls when the reading is a shake and a roll is allowed.
func (g *Game) OnShake(r motion.Reading) bool {
	if !r.IsShaking(ShakeThreshold) {
		return false
	}
	return g.TryRoll()
}

// Reset shows 1 again and clears the count. A roll in progress is abandoned.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	g.value = 1
	g.count = 0
	g.rolling = false
	g.cooling = false
}

// Snapshot returns the current state.
func (g *Game) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() State {
	return State{Value: g.value, Count: g.count, Rolling: g.rolling, CanRoll: !g.rolling && !g.cooling}
}
