// Package notify schedules local notifications and registers the device's push token
// with the backend.
package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ChannelID    = "default_v2"
	DefaultSound = "custom_sound.wav"
	// DefaultDelay is how long after scheduling a local notification fires.
	DefaultDelay = time.Second
)

// ErrPermissionDenied is returned when the user has not allowed notifications.
var ErrPermissionDenied = errors.New("notify: permission denied")

// Importance of a channel, as Android defines it.
type Importance int

const (
	ImportanceDefault Importance = 3
	ImportanceHigh    Importance = 4
	ImportanceMax     Importance = 5
)

// Channel is an Android notification channel.
type Channel struct {
	ID         string
	Name       string
	Importance Importance
	Vibration  []time.Duration
	Sound      string
}

// DefaultChannel is the channel every notification is posted to on Android.
func DefaultChannel() Channel {
	return Channel{
		ID:         ChannelID,
		Name:       "default",
		Importance: ImportanceMax,
		Vibration:  []time.Duration{0, 250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		Sound:      DefaultSound,
	}
}

// Notification is one local notification.
type Notification struct {
	ID        string
	Title     string
	Body      string
	Sound     string
	ChannelID string
	Delay     time.Duration
}

// Welcome is shown after an account is created.
func Welcome() Notification {
	return Notification{Title: "Cuenta creada", Body: "Bienvenido/a 👋", Sound: DefaultSound, Delay: DefaultDelay}
}

// OrderCreated confirms an order. orderID may be empty.
func OrderCreated(orderID string) Notification {
	body := "Tu pedido fue creado correctamente."
	if orderID != "" {
		body = fmt.Sprintf("Tu pedido %s fue creado correctamente.", orderID)
	}
	return Notification{Title: "Pedido enviado", Body: body, Sound: DefaultSound, Delay: DefaultDelay}
}

// Sink displays a notification once it is due.
type Sink interface {
	Deliver(Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Deliver(n Notification) { f(n) }

// Permissions asks the platform whether notifications may be shown.
type Permissions interface {
	Granted() bool
	Request() bool
}

// AlwaysGranted is the desktop policy.
type AlwaysGranted struct{}

func (AlwaysGranted) Granted() bool { return true }
func (AlwaysGranted) Request() bool { return true }

// Scheduler delivers notifications to a sink after their delay.
type Scheduler struct {
	sink     Sink
	perms    Permissions
	platform string

	mu       sync.Mutex
	channels map[string]Channel
	timers   map[string]*time.Timer
}

// NewScheduler returns a scheduler for platform ("android", "ios", "desktop", ...).
func NewScheduler(platform string, sink Sink, perms Permissions) *Scheduler {
	if perms == nil {
		perms = AlwaysGranted{}
	}
	return &Scheduler{
		sink:     sink,
		perms:    perms,
		platform: platform,
		channels: map[string]Channel{},
		timers:   map[string]*time.Timer{},
	}
}

// Setup registers the default channel. Only Android has channels.
func (s *Scheduler) Setup() {
	if s.platform != "android" {
		return
	}
	s.mu.Lock()
	s.channels[ChannelID] = DefaultChannel()
	s.mu.Unlock()
}

// Channel returns a registered channel.
func (s *Scheduler) Channel(id string) (Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.channels[id]
	return c, ok
}

// EnsurePermissions requests permission when it has not been granted yet.
func (s *Scheduler) EnsurePermissions() bool {
	return s.perms.Granted() || s.perms.Request()
}

// Schedule queues n and returns its ID. Without permission nothing is queued.
func (s *Scheduler) Schedule(n Notification) (string, error) {
	if !s.EnsurePermissions() {
		return "", ErrPermissionDenied
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if s.platform == "android" && n.ChannelID == "" {
		n.ChannelID = ChannelID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[n.ID] = time.AfterFunc(n.Delay, func() {
		s.mu.Lock()
		_, pending := s.timers[n.ID]
		delete(s.timers, n.ID)
		s.mu.Unlock()
		if pending {
			s.sink.Deliver(n)
		}
	})
	return n.ID, nil
}

// Cancel drops a pending notification. It reports whether one was pending.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	return true
}

// Pending is the number of notifications not yet delivered.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
