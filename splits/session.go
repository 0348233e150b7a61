// Package splits owns the splits editor: a working copy of the canonical run,
// the text buffers shown in the editor window and the commit back to the
// shared timer.
//
// A Session is only touched from the dispatcher goroutine and has no locking
// of its own. The canonical run is reached through timer.SharedTimer.
package splits

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"Splitter/timer"
)

var (
	// ErrSessionOpen is returned when Open is called while an editor session exists.
	ErrSessionOpen = errors.New("splits editor is already open")
	// ErrSessionClosed is returned when Close is called without an open session.
	ErrSessionClosed = errors.New("splits editor is not open")
	// ErrCommitRejected wraps the timer's refusal to take the edited run.
	ErrCommitRejected = errors.New("edited splits were rejected")
)

// HotkeySwitch suspends global hotkeys while a working copy exists.
type HotkeySwitch interface {
	Activate() error
	Deactivate() error
}

// Session is an open splits editor.
type Session struct {
	base       *timer.Run
	editor     *timer.RunEditor
	state      timer.EditorState
	offset     string
	rows       []RowBuffer
	checkpoint *timer.RunEditor
	// unsettled is set while split or segment keystrokes have not been followed by FixTimes.
	unsettled bool
}

func newSession(run *timer.Run) (*Session, error) {
	editor, err := timer.NewRunEditor(run)
	if err != nil {
		return nil, err
	}
	s := &Session{base: run, editor: editor}
	s.Resync()
	return s, nil
}

// refresh re-reads the editor state without touching the buffers.
func (s *Session) refresh() {
	s.state = s.editor.State()
}

// View is an immutable copy of everything the editor window renders.
type View struct {
	State  timer.EditorState
	Offset string
	Rows   []RowBuffer
}

// View copies the session for rendering on another goroutine.
func (s *Session) View() View {
	st := s.state
	st.Segments = slices.Clone(s.state.Segments)
	return View{State: st, Offset: s.offset, Rows: slices.Clone(s.rows)}
}

// Rows returns a copy of the row buffers.
func (s *Session) Rows() []RowBuffer {
	return slices.Clone(s.rows)
}

// Offset returns the offset buffer.
func (s *Session) Offset() string {
	return s.offset
}

// State returns the last formatted editor state.
func (s *Session) State() timer.EditorState {
	return s.state
}

// SetGameName renames the game.
func (s *Session) SetGameName(name string) {
	s.editor.SetGameName(name)
	s.refresh()
}

// SetCategoryName renames the category.
func (s *Session) SetCategoryName(name string) {
	s.editor.SetCategoryName(name)
	s.refresh()
}

// SetAttempts sets the attempt counter if text is a non-negative integer.
func (s *Session) SetAttempts(text string) {
	if n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32); err == nil {
		s.editor.SetAttemptCount(uint32(n))
	}
	s.refresh()
}

// SetSegmentName renames a row, selecting it first.
func (s *Session) SetSegmentName(row int, name string) {
	if row < 0 || row >= len(s.rows) {
		return
	}
	if row != s.editor.ActiveIndex() {
		s.SelectRow(row)
	}
	s.editor.ActiveSegment().SetName(name)
	s.refresh()
}

// SelectRow makes row the active segment. Reselecting the active row is a no-op.
func (s *Session) SelectRow(row int) {
	s.editor.SelectOnly(row)
	s.refresh()
}

// ActiveRow returns the index later per-row edits apply to.
func (s *Session) ActiveRow() int {
	return s.editor.ActiveIndex()
}

// InsertAbove inserts an empty row above the active one.
func (s *Session) InsertAbove() {
	s.mutate(true, s.editor.InsertSegmentAbove)
}

// InsertBelow inserts an empty row below the active one.
func (s *Session) InsertBelow() {
	s.mutate(true, s.editor.InsertSegmentBelow)
}

// RemoveSelected removes the active row. With a single row left it does nothing.
func (s *Session) RemoveSelected() {
	s.mutate(s.state.Buttons.CanRemove, s.editor.RemoveSegments)
}

// MoveUp moves the active row up; the moved row stays active.
func (s *Session) MoveUp() {
	s.mutate(s.state.Buttons.CanMoveUp, s.editor.MoveSegmentsUp)
}

// MoveDown moves the active row down; the moved row stays active.
func (s *Session) MoveDown() {
	s.mutate(s.state.Buttons.CanMoveDown, s.editor.MoveSegmentsDown)
}

func (s *Session) mutate(allowed bool, op func()) {
	if !allowed {
		return
	}
	s.checkpoint = nil
	s.settle()
	op()
	s.Resync()
}

// finish applies the pending offset and closes the editor. changed reports
// whether the run differs from the one the session was opened on.
func (s *Session) finish() (run *timer.Run, changed bool) {
	s.BlurOffset()
	s.settle()
	run = s.editor.Close()
	return run, !run.Equal(s.base)
}

// Manager moves the editor between Closed and Open.
type Manager struct {
	shared  *timer.SharedTimer
	hotkeys HotkeySwitch
	session *Session
}

// NewManager creates a closed manager.
func NewManager(shared *timer.SharedTimer, hotkeys HotkeySwitch) *Manager {
	return &Manager{shared: shared, hotkeys: hotkeys}
}

// IsOpen reports whether a session exists.
func (m *Manager) IsOpen() bool {
	return m.session != nil
}

// Session returns the open session, or nil.
func (m *Manager) Session() *Session {
	return m.session
}

// Open suspends hotkeys and starts a session on a copy of the canonical run.
// Opening twice is rejected with ErrSessionOpen; the existing session is kept.
func (m *Manager) Open() (*Session, error) {
	if m.session != nil {
		return nil, ErrSessionOpen
	}
	if err := m.hotkeys.Deactivate(); err != nil {
		log.Printf("Failed to disable hotkeys: %v", err)
	}

	sess, err := newSession(m.shared.CloneRun())
	if err != nil {
		// The timer never holds an invalid run.
		log.Panicf("Canonical run is invalid: %v", err)
	}
	m.session = sess
	return sess, nil
}

// Close ends the session and re-enables hotkeys. With commit set the pending
// offset is applied and the edited run replaces the canonical one, unless
// nothing changed. A rejected write-back drops the edits and is returned
// wrapped in ErrCommitRejected.
func (m *Manager) Close(commit bool) error {
	sess := m.session
	if sess == nil {
		return ErrSessionClosed
	}
	m.session = nil

	var err error
	if commit {
		if run, changed := sess.finish(); changed {
			m.shared.Write(func(t *timer.Timer) {
				if rerr := t.ReplaceRun(run, false); rerr != nil {
					err = fmt.Errorf("%w: %w", ErrCommitRejected, rerr)
				}
			})
		}
	}

	if aerr := m.hotkeys.Activate(); aerr != nil {
		err = errors.Join(err, fmt.Errorf("failed to re-enable hotkeys: %w", aerr))
	}
	return err
}
