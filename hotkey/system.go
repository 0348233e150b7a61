package hotkey

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"Splitter/timer"
)

// ErrStopped is returned by Activate and Deactivate once the listener has exited.
var ErrStopped = errors.New("hotkey listener stopped")

// System is the live hotkey registry. Key presses are queued with Press and
// handled on the listener goroutine started by Run, which writes to the shared
// timer while the system is active.
type System struct {
	shared *timer.SharedTimer

	// mu is held while an action is applied, so Deactivate returning means no
	// action is in flight and none will start.
	mu       sync.Mutex
	cfg      Config
	active   bool
	stopped  bool
	onAction func(Action)

	keys chan Hotkey
}

// NewSystem creates an active system bound to cfg. It fails if cfg binds one key twice.
func NewSystem(shared *timer.SharedTimer, cfg Config) (*System, error) {
	s := &System{shared: shared, active: true, keys: make(chan Hotkey, 64)}
	if err := s.SetConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// OnAction registers a callback run on the listener goroutine after each applied action.
func (s *System) OnAction(fn func(Action)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAction = fn
}

// Config returns a copy of the live configuration.
func (s *System) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig rebinds every slot, in slot order, against the live registry: a slot's
// old key is released before its new key is registered, but keys held by later
// slots are still registered when an earlier slot is processed. A key that is
// already taken yields a *ConflictError and the live configuration is left
// unchanged.
func (s *System) SetConfig(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	for i, h := range cfg {
		if next[i] == h {
			continue
		}
		next[i] = Hotkey{}
		if other, taken := next.Lookup(h); taken {
			return &ConflictError{Hotkey: h, Action: Action(i), BoundTo: other}
		}
		next[i] = h
	}
	s.cfg = next
	return nil
}

// Activate resumes dispatching key presses to the timer.
func (s *System) Activate() error {
	return s.setActive(true)
}

// Deactivate stops dispatching. When it returns, no action is being applied.
func (s *System) Deactivate() error {
	return s.setActive(false)
}

func (s *System) setActive(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.active = active
	return nil
}

// Active reports whether key presses currently reach the timer.
func (s *System) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Press queues a key press for the listener. If the queue stays full for a short
// time the press is dropped rather than blocking the caller.
func (s *System) Press(h Hotkey) {
	if h.IsZero() {
		return
	}
	select {
	case s.keys <- h:
	case <-time.After(50 * time.Millisecond):
		log.Printf("Hotkey queue full: dropping %s", h)
	}
}

// Run is the listener loop. It returns when ctx is cancelled.
func (s *System) Run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.stopped = true
		s.active = false
		s.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case h := <-s.keys:
			s.handle(h)
		}
	}
}

func (s *System) handle(h Hotkey) {
	s.mu.Lock()
	action, bound := s.cfg.Lookup(h)
	if !s.active || !bound {
		s.mu.Unlock()
		return
	}
	s.shared.Write(action.Apply)
	cb := s.onAction
	s.mu.Unlock()

	if cb != nil {
		cb(action)
	}
}
