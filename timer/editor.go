package timer

import (
	"slices"
	"time"
)

// Selection is how a row is highlighted in the editor.
type Selection int

const (
	NotSelected Selection = iota
	Selected
	Active
)

// IsSelectedOrActive reports whether the row should be drawn highlighted.
func (s Selection) IsSelectedOrActive() bool {
	return s != NotSelected
}

// SegmentState is the formatted view of one editor row.
type SegmentState struct {
	Name            string
	SplitTime       string
	SegmentTime     string
	BestSegmentTime string
	Selected        Selection
}

// EditorButtons tells the UI which structural operations currently have a target.
type EditorButtons struct {
	CanRemove   bool
	CanMoveUp   bool
	CanMoveDown bool
}

// EditorState is a formatted snapshot of a RunEditor.
type EditorState struct {
	Game         string
	Category     string
	Offset       string
	AttemptCount uint32
	Segments     []SegmentState
	Buttons      EditorButtons
}

// RunEditor edits a private copy of a run. It tracks a single active row.
type RunEditor struct {
	run      *Run
	original *Run
	active   int
}

// NewRunEditor opens an editor on a copy of run.
func NewRunEditor(run *Run) (*RunEditor, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return &RunEditor{run: run.Clone(), original: run.Clone()}, nil
}

// Clone copies the editor, including the original it compares against on Close.
func (e *RunEditor) Clone() *RunEditor {
	return &RunEditor{run: e.run.Clone(), original: e.original, active: e.active}
}

// State formats the editor's current run.
func (e *RunEditor) State() EditorState {
	st := EditorState{
		Game:         e.run.GameName,
		Category:     e.run.CategoryName,
		Offset:       FormatTime(e.run.Offset),
		AttemptCount: e.run.AttemptCount,
		Segments:     make([]SegmentState, len(e.run.Segments)),
		Buttons: EditorButtons{
			CanRemove:   len(e.run.Segments) > 1,
			CanMoveUp:   e.active > 0,
			CanMoveDown: e.active < len(e.run.Segments)-1,
		},
	}
	segTimes := e.run.SegmentTimes()
	for i, seg := range e.run.Segments {
		sel := NotSelected
		if i == e.active {
			sel = Active
		}
		st.Segments[i] = SegmentState{
			Name:            seg.Name,
			SplitTime:       FormatSpan(seg.SplitTime),
			SegmentTime:     FormatSpan(segTimes[i]),
			BestSegmentTime: FormatSpan(seg.BestSegmentTime),
			Selected:        sel,
		}
	}
	return st
}

// Len returns the number of segments.
func (e *RunEditor) Len() int {
	return len(e.run.Segments)
}

// ActiveIndex returns the index of the active row.
func (e *RunEditor) ActiveIndex() int {
	return e.active
}

// AttemptCount returns the run's attempt counter.
func (e *RunEditor) AttemptCount() uint32 {
	return e.run.AttemptCount
}

func (e *RunEditor) SetGameName(name string) {
	e.run.GameName = name
}

func (e *RunEditor) SetCategoryName(name string) {
	e.run.CategoryName = name
}

func (e *RunEditor) SetAttemptCount(n uint32) {
	e.run.AttemptCount = n
}

// ParseAndSetOffset sets the start offset. On error the offset is unchanged.
func (e *RunEditor) ParseAndSetOffset(text string) error {
	d, err := ParseOffset(text)
	if err != nil {
		return err
	}
	e.run.Offset = d
	return nil
}

// SelectOnly makes row i the only selected and active row. Out-of-range indices are ignored.
func (e *RunEditor) SelectOnly(i int) {
	if i < 0 || i >= len(e.run.Segments) {
		return
	}
	e.active = i
}

// ActiveSegment returns an editor for the active row.
func (e *RunEditor) ActiveSegment() *SegmentEditor {
	return &SegmentEditor{editor: e, index: e.active}
}

// InsertSegmentAbove inserts an empty segment before the active row and activates it.
func (e *RunEditor) InsertSegmentAbove() {
	e.run.Segments = slices.Insert(e.run.Segments, e.active, Segment{})
}

// InsertSegmentBelow inserts an empty segment after the active row and activates it.
func (e *RunEditor) InsertSegmentBelow() {
	e.active++
	e.run.Segments = slices.Insert(e.run.Segments, e.active, Segment{})
}

// RemoveSegments removes the active row. The last remaining row cannot be removed.
// The removed best segment is folded into the following row's best segment.
func (e *RunEditor) RemoveSegments() {
	n := len(e.run.Segments)
	if n <= 1 {
		return
	}
	i := e.active
	if i+1 < n {
		next := &e.run.Segments[i+1]
		removed, okRemoved := e.run.Segments[i].BestSegmentTime.Duration()
		nextBest, okNext := next.BestSegmentTime.Duration()
		if okRemoved && okNext {
			next.BestSegmentTime = SpanOf(removed + nextBest)
		} else {
			next.BestSegmentTime = Span{}
		}
	}
	e.run.Segments = slices.Delete(e.run.Segments, i, i+1)
	if e.active >= len(e.run.Segments) {
		e.active = len(e.run.Segments) - 1
	}
	e.run.fixBestSegments()
}

// MoveSegmentsUp swaps the active row with the one above it. The active row follows the move.
func (e *RunEditor) MoveSegmentsUp() {
	if e.active == 0 {
		return
	}
	e.swap(e.active-1, e.active)
	e.active--
}

// MoveSegmentsDown swaps the active row with the one below it. The active row follows the move.
func (e *RunEditor) MoveSegmentsDown() {
	if e.active >= len(e.run.Segments)-1 {
		return
	}
	e.swap(e.active, e.active+1)
	e.active++
}

// swap exchanges two adjacent rows together with their own segment durations and
// rebuilds the cumulative split times around them.
func (e *RunEditor) swap(a, b int) {
	segs := e.run.Segments
	times := e.run.SegmentTimes()
	segs[a], segs[b] = segs[b], segs[a]
	times[a], times[b] = times[b], times[a]

	var acc time.Duration
	if a > 0 {
		for j := a - 1; j >= 0; j-- {
			if d, ok := segs[j].SplitTime.Duration(); ok {
				acc = d
				break
			}
		}
	}
	for _, j := range []int{a, b} {
		if d, ok := times[j].Duration(); ok {
			acc += d
			segs[j].SplitTime = SpanOf(acc)
		} else {
			segs[j].SplitTime = Span{}
		}
	}
}

// FixTimes settles a finished time edit. Split times running backwards are
// raised to the split before them, then best segments slower than the
// resulting segment times are lowered.
func (e *RunEditor) FixTimes() {
	e.run.fixSplits()
	e.run.fixBestSegments()
}

// Close ends the editing session and returns the edited run. The run is flagged as
// modified only if it was already modified or its content differs from the run the
// editor was opened with.
func (e *RunEditor) Close() *Run {
	run := e.run.Clone()
	if e.original.HasBeenModified() || !run.Equal(e.original) {
		run.MarkAsModified()
	} else {
		run.MarkAsUnmodified()
	}
	return run
}

// SegmentEditor edits one row of a RunEditor.
type SegmentEditor struct {
	editor *RunEditor
	index  int
}

func (s *SegmentEditor) segment() *Segment {
	return &s.editor.run.Segments[s.index]
}

// SetName renames the segment.
func (s *SegmentEditor) SetName(name string) {
	s.segment().Name = name
}

// ParseAndSetSplitTime sets the cumulative split time. On error nothing changes.
// Neighbouring rows and best segments are left for FixTimes.
func (s *SegmentEditor) ParseAndSetSplitTime(text string) error {
	span, err := ParseSpan(text)
	if err != nil {
		return err
	}
	s.segment().SplitTime = span
	return nil
}

// ParseAndSetSegmentTime sets the segment's own duration. Later split times shift by
// the difference so their segment times are kept.
func (s *SegmentEditor) ParseAndSetSegmentTime(text string) error {
	span, err := ParseSpan(text)
	if err != nil {
		return err
	}
	segs := s.editor.run.Segments
	var prev time.Duration
	for j := s.index - 1; j >= 0; j-- {
		if d, ok := segs[j].SplitTime.Duration(); ok {
			prev = d
			break
		}
	}

	old := segs[s.index].SplitTime
	d, ok := span.Duration()
	if !ok {
		segs[s.index].SplitTime = Span{}
		return nil
	}
	segs[s.index].SplitTime = SpanOf(prev + d)

	if oldD, had := old.Duration(); had {
		delta := prev + d - oldD
		for j := s.index + 1; j < len(segs); j++ {
			segs[j].SplitTime = segs[j].SplitTime.Add(delta)
		}
	}
	return nil
}

// ParseAndSetBestSegmentTime sets the best segment time. On error nothing changes.
func (s *SegmentEditor) ParseAndSetBestSegmentTime(text string) error {
	span, err := ParseSpan(text)
	if err != nil {
		return err
	}
	s.segment().BestSegmentTime = span
	return nil
}
