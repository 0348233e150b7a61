package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"Splitter/control"
	"Splitter/hotkey"
	"Splitter/i18n"
)

type settingsWindow struct {
	win   fyne.Window
	post  func(control.Event)
	boxes []*hotkeyBox
	form  *fyne.Container
}

func newSettingsWindow(a fyne.App, post func(control.Event), onClosed func()) *settingsWindow {
	s := &settingsWindow{
		win:  a.NewWindow(i18n.T("Settings")),
		post: post,
		form: container.NewGridWithColumns(3),
	}

	save := &widget.Button{Text: i18n.T("Save"), Importance: widget.HighImportance, OnTapped: func() {
		s.post(control.SaveHotkeys{})
	}}
	discard := widget.NewButton(i18n.T("Discard"), func() { s.post(control.DiscardHotkeys{}) })

	title := widget.NewLabel(i18n.T("Hotkeys"))
	title.TextStyle.Bold = true
	s.win.SetContent(container.NewBorder(title, container.NewGridWithColumns(2, discard, save), nil, nil, s.form))
	s.win.SetOnClosed(func() {
		s.post(control.WindowClosed{Window: control.SettingsWindow})
		onClosed()
	})
	return s
}

func (s *settingsWindow) slot(i int) *hotkeyBox {
	b := newHotkeyBox()
	b.SetPlaceHolder(i18n.T("Press a key"))
	b.onFocus = func(focused bool) { s.post(control.HotkeyFocusChanged{Slot: i, Focused: focused}) }
	b.onKey = func(h hotkey.Hotkey) { s.post(control.KeyPressed{Window: control.SettingsWindow, Hotkey: h}) }
	return b
}

func (s *settingsWindow) sync(rows []hotkey.Row) {
	if len(s.boxes) != len(rows) {
		s.win.Canvas().Unfocus()
		s.boxes = s.boxes[:0]
		var objs []fyne.CanvasObject
		for i, row := range rows {
			i := i
			b := s.slot(i)
			s.boxes = append(s.boxes, b)
			objs = append(objs,
				widget.NewLabel(i18n.T(row.Label)),
				b,
				widget.NewButton(i18n.T("Clear"), func() { s.post(control.ClearHotkey{Slot: i}) }),
			)
		}
		s.form.Objects = objs
		s.form.Refresh()
	}
	for i, row := range rows {
		if s.boxes[i].Text != row.Binding {
			s.boxes[i].SetText(row.Binding)
		}
	}
}
