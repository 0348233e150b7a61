// Package ui is the fyne front end. It turns user input into control events
// and renders whatever the dispatcher hands back. Methods of UI are called
// from the dispatcher goroutine and move their work onto the fyne thread.
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Splitter/control"
	"Splitter/hotkey"
	"Splitter/i18n"
	splitlayout "Splitter/layout"
	"Splitter/splits"
	"Splitter/timer"
)

// Poster accepts events for the dispatcher.
type Poster interface {
	Post(ev control.Event)
}

type UI struct {
	app    fyne.App
	poster Poster

	main     fyne.Window
	live     *liveView
	keys     modTracker
	editor   *editorWindow
	settings *settingsWindow

	applied  fyne.Size
	quitting bool
}

// New builds the main window. Nothing is shown until ShowAndRun.
func New(a fyne.App, p Poster) *UI {
	u := &UI{app: a, poster: p}

	title := a.Metadata().Name
	if title == "" {
		title = "Splitter"
	}
	u.main = a.NewWindow(title)
	u.live = newLiveView(func(s fyne.Size) {
		u.post(control.WindowResized{Width: s.Width, Height: s.Height})
	})

	menu := u.menu()
	u.main.SetMainMenu(fyne.NewMainMenu(menu))
	u.main.SetContent(NewTappableContainer(u.live, nil, func(e *fyne.PointEvent) {
		widget.ShowPopUpMenuAtPosition(menu, u.main.Canvas(), e.AbsolutePosition)
	}))
	u.main.SetCloseIntercept(func() {
		u.post(control.CloseRequested{Window: control.MainWindow})
	})
	u.main.SetOnClosed(func() {
		u.post(control.WindowClosed{Window: control.MainWindow})
	})

	if dc, ok := u.main.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if h, ok := u.keys.down(ev.Name); ok {
				u.post(control.KeyPressed{Window: control.MainWindow, Hotkey: h})
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { u.keys.up(ev.Name) })
	}
	return u
}

func (u *UI) menu() *fyne.Menu {
	item := func(label string, ev control.Event) *fyne.MenuItem {
		return fyne.NewMenuItem(i18n.T(label), func() { u.post(ev) })
	}
	quit := item("Quit", control.CloseRequested{Window: control.MainWindow})
	quit.IsQuit = true

	return fyne.NewMenu(i18n.T("Splits"),
		item("Edit Splits...", control.OpenEditSplits{}),
		item("Load Splits...", control.TryLoadSplits{}),
		item("Save Splits...", control.TrySaveSplits{}),
		fyne.NewMenuItemSeparator(),
		item("Load Layout...", control.TryLoadLayout{}),
		item("Settings", control.OpenSettings{}),
		fyne.NewMenuItemSeparator(),
		quit,
	)
}

// post drops events once the UI is shutting down. It runs on the fyne thread.
func (u *UI) post(ev control.Event) {
	if u.quitting {
		return
	}
	u.poster.Post(ev)
}

// Window returns the main window, the parent of every dialog.
func (u *UI) Window() fyne.Window {
	return u.main
}

// ShowAndRun sizes the main window to l and blocks until the app quits.
func (u *UI) ShowAndRun(l splitlayout.Layout) {
	u.applied = fyne.NewSize(l.Width, l.Height)
	u.main.Resize(u.applied)
	u.main.ShowAndRun()
}

func (u *UI) Refresh(snap timer.Snapshot, l splitlayout.Layout) {
	fyne.Do(func() {
		u.live.update(snap, l)
		if size := fyne.NewSize(l.Width, l.Height); size != u.applied {
			u.applied = size
			u.main.Resize(size)
		}
	})
}

func (u *UI) ShowEditor(v splits.View) {
	fyne.Do(func() {
		if u.quitting {
			return
		}
		if u.editor == nil {
			u.editor = newEditorWindow(u.app, u.post, func() { u.editor = nil })
			u.editor.sync(v)
			u.editor.win.Show()
			return
		}
		u.editor.sync(v)
	})
}

func (u *UI) ShowSettings(rows []hotkey.Row) {
	fyne.Do(func() {
		if u.quitting {
			return
		}
		if u.settings == nil {
			u.settings = newSettingsWindow(u.app, u.post, func() { u.settings = nil })
			u.settings.sync(rows)
			u.settings.win.Show()
			return
		}
		u.settings.sync(rows)
	})
}

func (u *UI) ShowError(title string, err error) {
	fyne.Do(func() {
		if u.quitting {
			return
		}
		dialog.ShowInformation(title, err.Error(), u.main)
	})
}

func (u *UI) CloseEditor() {
	fyne.Do(func() {
		if u.editor == nil {
			return
		}
		u.editor.commit = true
		u.editor.win.Close()
	})
}

func (u *UI) Quit() {
	fyne.Do(func() {
		u.quitting = true
		if u.editor != nil {
			u.editor.win.Close()
		}
		if u.settings != nil {
			u.settings.win.Close()
		}
		u.app.Quit()
	})
}
