// Package hotkey maps keys to timer actions. It holds the nine-slot binding
// Config, the live System whose listener goroutine applies actions to the
// shared timer, and the Staging area the settings window edits.
package hotkey

import (
	"fmt"
	"strings"

	"Splitter/timer"
)

// Action is one of the fixed hotkey slots.
type Action int

const (
	Split Action = iota
	Reset
	Undo
	Skip
	Pause
	UndoAllPauses
	PreviousComparison
	NextComparison
	ToggleTimingMethod

	ActionCount
)

var actionLabels = [ActionCount]string{
	"Start/Split",
	"Reset",
	"Undo",
	"Skip",
	"Pause",
	"Undo All Pauses",
	"Previous Comparison",
	"Next Comparison",
	"Toggle Timing Method",
}

var actionKeys = [ActionCount]string{
	"split",
	"reset",
	"undo",
	"skip",
	"pause",
	"undo_all_pauses",
	"previous_comparison",
	"next_comparison",
	"toggle_timing_method",
}

// Label is the text shown next to the slot in the settings window.
func (a Action) Label() string {
	if a < 0 || a >= ActionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionLabels[a]
}

// Key is the name used for the slot in the settings file.
func (a Action) Key() string {
	if a < 0 || a >= ActionCount {
		return ""
	}
	return actionKeys[a]
}

func (a Action) String() string {
	return a.Label()
}

// Apply performs the action on t. Must be called inside a SharedTimer write transaction.
func (a Action) Apply(t *timer.Timer) {
	switch a {
	case Split:
		t.Split()
	case Reset:
		t.Reset(true)
	case Undo:
		t.UndoSplit()
	case Skip:
		t.SkipSplit()
	case Pause:
		t.TogglePause()
	case UndoAllPauses:
		t.UndoAllPauses()
	case PreviousComparison:
		t.SwitchComparison(-1)
	case NextComparison:
		t.SwitchComparison(1)
	case ToggleTimingMethod:
		t.ToggleTimingMethod()
	}
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModControl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

// Hotkey is a physical key plus modifiers. The zero value means "unbound".
type Hotkey struct {
	Key       string
	Modifiers Modifiers
}

// IsZero reports whether the hotkey is unbound.
func (h Hotkey) IsZero() bool {
	return h.Key == ""
}

func (h Hotkey) String() string {
	if h.IsZero() {
		return ""
	}
	var b strings.Builder
	for _, m := range modifierNames {
		if h.Modifiers&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(h.Key)
	return b.String()
}

// ParseHotkey reads the form produced by Hotkey.String, e.g. "Ctrl+Shift+Space".
// An empty string yields the unbound hotkey.
func ParseHotkey(s string) (Hotkey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hotkey{}, nil
	}
	parts := strings.Split(s, "+")
	h := Hotkey{Key: parts[len(parts)-1]}
	if h.Key == "" {
		return Hotkey{}, fmt.Errorf("invalid hotkey %q", s)
	}
mods:
	for _, p := range parts[:len(parts)-1] {
		for _, m := range modifierNames {
			if strings.EqualFold(p, m.name) {
				h.Modifiers |= m.mod
				continue mods
			}
		}
		return Hotkey{}, fmt.Errorf("invalid hotkey %q: unknown modifier %q", s, p)
	}
	return h, nil
}

// Config binds one optional hotkey to every Action slot.
type Config [ActionCount]Hotkey

// Lookup finds the slot bound to h.
func (c Config) Lookup(h Hotkey) (Action, bool) {
	if h.IsZero() {
		return 0, false
	}
	for i, bound := range c {
		if bound == h {
			return Action(i), true
		}
	}
	return 0, false
}

// ToMap converts the config to slot key -> hotkey string, for persistence.
// Unbound slots map to "".
func (c Config) ToMap() map[string]string {
	m := make(map[string]string, ActionCount)
	for i, h := range c {
		m[Action(i).Key()] = h.String()
	}
	return m
}

// ConfigFromMap is the inverse of ToMap. Missing slots stay unbound; unknown keys are ignored.
func ConfigFromMap(m map[string]string) (Config, error) {
	var c Config
	for i := range c {
		s, ok := m[Action(i).Key()]
		if !ok {
			continue
		}
		h, err := ParseHotkey(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", Action(i).Key(), err)
		}
		c[i] = h
	}
	return c, nil
}

// DefaultConfig lays the actions out on the number pad digits.
func DefaultConfig() Config {
	return Config{
		Split:              {Key: "1"},
		Reset:              {Key: "3"},
		Undo:               {Key: "8"},
		Skip:               {Key: "2"},
		Pause:              {Key: "5"},
		PreviousComparison: {Key: "4"},
		NextComparison:     {Key: "6"},
	}
}

// ConflictError is returned when a key is already bound to another slot.
type ConflictError struct {
	Hotkey  Hotkey
	Action  Action
	BoundTo Action
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s cannot be bound to %s: already used by %s", e.Hotkey, e.Action, e.BoundTo)
}
