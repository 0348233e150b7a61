package hotkey

import "fmt"

// Configurer is the part of System the staging area reads from and commits to.
type Configurer interface {
	Config() Config
	SetConfig(Config) error
}

// Staging holds the replacement bindings edited in the settings window. It is
// owned by the dispatcher goroutine and is not safe for concurrent use.
type Staging struct {
	slots   Config
	focused int
}

// NewStaging loads the live configuration from src.
func NewStaging(src Configurer) *Staging {
	return &Staging{slots: src.Config(), focused: -1}
}

// Config returns the staged bindings.
func (s *Staging) Config() Config {
	return s.slots
}

// Focus records that a slot's input box gained or lost focus. Losing focus only
// clears the focus if that slot still holds it.
func (s *Staging) Focus(slot int, focused bool) {
	if focused {
		if slot >= 0 && slot < int(ActionCount) {
			s.focused = slot
		}
		return
	}
	if s.focused == slot {
		s.focused = -1
	}
}

// Focused returns the focused slot, if any.
func (s *Staging) Focused() (Action, bool) {
	if s.focused < 0 {
		return 0, false
	}
	return Action(s.focused), true
}

// KeyPressed binds h to the focused slot. It reports whether a slot was focused.
func (s *Staging) KeyPressed(h Hotkey) bool {
	if s.focused < 0 {
		return false
	}
	s.slots[s.focused] = h
	return true
}

// Clear unbinds a slot.
func (s *Staging) Clear(slot int) {
	if slot < 0 || slot >= int(ActionCount) {
		return
	}
	s.slots[slot] = Hotkey{}
}

// Discard throws away staged edits and reloads the live configuration.
func (s *Staging) Discard(src Configurer) {
	s.slots = src.Config()
}

// Commit applies the staged bindings to dst in two phases: every slot is
// cleared first, then the staged set is applied. Going through the empty
// configuration keeps a permutation of existing keys (swapping two slots) from
// colliding with the not yet updated binding of another slot.
//
// If the second phase fails the staged set binds one key twice; dst is left
// with every slot cleared and the error is returned.
func (s *Staging) Commit(dst Configurer) error {
	if err := dst.SetConfig(Config{}); err != nil {
		return fmt.Errorf("failed to clear hotkeys: %w", err)
	}
	if err := dst.SetConfig(s.slots); err != nil {
		return fmt.Errorf("failed to update hotkeys: %w", err)
	}
	return nil
}

// Row is one line of the settings window.
type Row struct {
	Label   string
	Binding string
	Focused bool
}

// Rows renders the staged bindings.
func (s *Staging) Rows() []Row {
	rows := make([]Row, ActionCount)
	for i, h := range s.slots {
		rows[i] = Row{Label: Action(i).Label(), Binding: h.String(), Focused: i == s.focused}
	}
	return rows
}
