package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"Splitter/hotkey"
)

// focusEntry is an Entry that reports focus changes.
type focusEntry struct {
	widget.Entry
	onFocus func(focused bool)
}

func newFocusEntry() *focusEntry {
	e := &focusEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *focusEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus(true)
	}
}

func (e *focusEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocus != nil {
		e.onFocus(false)
	}
}

// hotkeyBox is a read-only entry that captures the next key combination
// instead of inserting text.
type hotkeyBox struct {
	focusEntry
	mods  modTracker
	onKey func(hotkey.Hotkey)
}

func newHotkeyBox() *hotkeyBox {
	b := &hotkeyBox{}
	b.ExtendBaseWidget(b)
	return b
}

func (b *hotkeyBox) TypedRune(rune) {}

func (b *hotkeyBox) TypedKey(ev *fyne.KeyEvent) {
	if h, ok := b.mods.hotkey(ev.Name); ok && b.onKey != nil {
		b.onKey(h)
	}
}

func (b *hotkeyBox) TypedShortcut(s fyne.Shortcut) {
	ks, ok := s.(fyne.KeyboardShortcut)
	if !ok || b.onKey == nil {
		return
	}
	b.onKey(fromShortcut(ks))
}

func (b *hotkeyBox) KeyDown(ev *fyne.KeyEvent) {
	b.mods.down(ev.Name)
	b.focusEntry.KeyDown(ev)
}

func (b *hotkeyBox) KeyUp(ev *fyne.KeyEvent) {
	b.mods.up(ev.Name)
	b.focusEntry.KeyUp(ev)
}

func (b *hotkeyBox) FocusLost() {
	b.mods.reset()
	b.focusEntry.FocusLost()
}

// TappableContainer wraps content and reports primary and secondary taps.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
