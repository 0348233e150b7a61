package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"Splitter/hotkey"
)

var modifierKeys = map[fyne.KeyName]hotkey.Modifiers{
	desktop.KeyShiftLeft:    hotkey.ModShift,
	desktop.KeyShiftRight:   hotkey.ModShift,
	desktop.KeyControlLeft:  hotkey.ModControl,
	desktop.KeyControlRight: hotkey.ModControl,
	desktop.KeyAltLeft:      hotkey.ModAlt,
	desktop.KeyAltRight:     hotkey.ModAlt,
	desktop.KeySuperLeft:    hotkey.ModSuper,
	desktop.KeySuperRight:   hotkey.ModSuper,
}

// modTracker remembers which modifier keys are held down.
type modTracker struct {
	held map[fyne.KeyName]bool
}

// down records a key press. For anything but a modifier it returns the full combination.
func (m *modTracker) down(name fyne.KeyName) (hotkey.Hotkey, bool) {
	if _, ok := modifierKeys[name]; ok {
		if m.held == nil {
			m.held = make(map[fyne.KeyName]bool)
		}
		m.held[name] = true
		return hotkey.Hotkey{}, false
	}
	return m.hotkey(name)
}

func (m *modTracker) up(name fyne.KeyName) {
	delete(m.held, name)
}

func (m *modTracker) reset() {
	clear(m.held)
}

// hotkey combines name with the held modifiers. Modifier keys on their own are not hotkeys.
func (m *modTracker) hotkey(name fyne.KeyName) (hotkey.Hotkey, bool) {
	if _, ok := modifierKeys[name]; ok || name == "" {
		return hotkey.Hotkey{}, false
	}
	var mods hotkey.Modifiers
	for k := range m.held {
		mods |= modifierKeys[k]
	}
	return hotkey.Hotkey{Key: string(name), Modifiers: mods}, true
}

func fromShortcut(ks fyne.KeyboardShortcut) hotkey.Hotkey {
	h := hotkey.Hotkey{Key: string(ks.Key())}
	mod := ks.Mod()
	if mod&fyne.KeyModifierShift != 0 {
		h.Modifiers |= hotkey.ModShift
	}
	if mod&fyne.KeyModifierControl != 0 {
		h.Modifiers |= hotkey.ModControl
	}
	if mod&fyne.KeyModifierAlt != 0 {
		h.Modifiers |= hotkey.ModAlt
	}
	if mod&fyne.KeyModifierSuper != 0 {
		h.Modifiers |= hotkey.ModSuper
	}
	return h
}
