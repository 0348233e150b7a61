// Package control holds the events the UI sends to the application and the
// dispatcher that handles them one at a time on a single goroutine. All
// window state, the splits editor session and the hotkey staging area are
// owned by that goroutine.
package control

import (
	"Splitter/hotkey"
	"Splitter/splits"
	"Splitter/workflow"
)

// Event is the closed set of messages the dispatcher understands.
type Event interface {
	event()
}

// WindowKind identifies one of the application's windows.
type WindowKind int

const (
	MainWindow WindowKind = iota
	SettingsWindow
	EditSplitsWindow
)

func (k WindowKind) String() string {
	switch k {
	case SettingsWindow:
		return "settings"
	case EditSplitsWindow:
		return "edit splits"
	}
	return "main"
}

type (
	// TimerTick asks for the live view to be redrawn.
	TimerTick struct{}

	WindowResized struct {
		Width  float32
		Height float32
	}

	// CloseRequested is sent when the user tries to close the main window.
	CloseRequested struct{ Window WindowKind }

	// WindowClosed is sent after a window is gone. Commit tells whether the
	// splits editor's changes are kept.
	WindowClosed struct {
		Window WindowKind
		Commit bool
	}

	// KeyPressed carries a key pressed in one of the windows. Main window keys
	// go to the hotkey listener, settings window keys to the focused slot.
	KeyPressed struct {
		Window WindowKind
		Hotkey hotkey.Hotkey
	}

	OpenSettings   struct{}
	OpenEditSplits struct{}

	HotkeyFocusChanged struct {
		Slot    int
		Focused bool
	}
	ClearHotkey    struct{ Slot int }
	SaveHotkeys    struct{}
	DiscardHotkeys struct{}

	TrySaveSplits struct{}
	SaveSplits    struct{ Path string }
	TryLoadSplits struct{}
	LoadSplits    struct{ Path string }
	TryLoadLayout struct{}
	LoadLayout    struct{ Path string }

	EditorEvent struct{ Edit splits.Edit }

	// ChainFinished reports that a workflow chain's gates have run.
	ChainFinished struct {
		Chain *workflow.Chain
		Token *workflow.Token
		Err   error
	}

	ErrorOccurred struct {
		Title string
		Err   error
	}

	// splitsSaved records a path written by a chain running off the dispatcher.
	splitsSaved struct{ Path string }
)

func (TimerTick) event()          {}
func (WindowResized) event()      {}
func (CloseRequested) event()     {}
func (WindowClosed) event()       {}
func (KeyPressed) event()         {}
func (OpenSettings) event()       {}
func (OpenEditSplits) event()     {}
func (HotkeyFocusChanged) event() {}
func (ClearHotkey) event()        {}
func (SaveHotkeys) event()        {}
func (DiscardHotkeys) event()     {}
func (TrySaveSplits) event()      {}
func (SaveSplits) event()         {}
func (TryLoadSplits) event()      {}
func (LoadSplits) event()         {}
func (TryLoadLayout) event()      {}
func (LoadLayout) event()         {}
func (EditorEvent) event()        {}
func (ChainFinished) event()      {}
func (ErrorOccurred) event()      {}
func (splitsSaved) event()        {}
