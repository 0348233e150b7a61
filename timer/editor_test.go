package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEditor(t *testing.T) *RunEditor {
	t.Helper()
	e, err := NewRunEditor(threeSegmentRun())
	require.NoError(t, err)
	return e
}

func names(st EditorState) []string {
	out := make([]string, len(st.Segments))
	for i, s := range st.Segments {
		out[i] = s.Name
	}
	return out
}

func TestNewRunEditorRejectsEmptyRun(t *testing.T) {
	_, err := NewRunEditor(&Run{})
	assert.ErrorIs(t, err, ErrEmptyRun)
}

func TestEditorStateFormatsSegmentTimes(t *testing.T) {
	st := newTestEditor(t).State()

	require.Len(t, st.Segments, 3)
	assert.Equal(t, "0:25.00", st.Segments[1].SplitTime)
	assert.Equal(t, "0:15.00", st.Segments[1].SegmentTime)
	assert.Equal(t, "0:15.00", st.Segments[2].BestSegmentTime)
	assert.Equal(t, Active, st.Segments[0].Selected)
	assert.Equal(t, "0:00.00", st.Offset)
	assert.Equal(t, EditorButtons{CanRemove: true, CanMoveDown: true}, st.Buttons)
}

func TestEditorSetSplitTimeLowersBestSegment(t *testing.T) {
	e := newTestEditor(t)
	e.SelectOnly(1)
	require.NoError(t, e.ActiveSegment().ParseAndSetSplitTime("20"))

	st := e.State()
	assert.Equal(t, "0:10.00", st.Segments[1].SegmentTime)
	assert.Equal(t, "0:15.00", st.Segments[1].BestSegmentTime)

	e.FixTimes()
	st = e.State()
	assert.Equal(t, "0:10.00", st.Segments[1].BestSegmentTime)
	assert.Equal(t, "0:20.00", st.Segments[2].SegmentTime)
}

func TestEditorFixTimesClampsBackwardSplit(t *testing.T) {
	e := newTestEditor(t)
	e.SelectOnly(1)
	require.NoError(t, e.ActiveSegment().ParseAndSetSplitTime("2"))
	assert.Equal(t, "-0:08.00", e.State().Segments[1].SegmentTime)

	e.FixTimes()
	st := e.State()
	assert.Equal(t, "0:10.00", st.Segments[1].SplitTime)
	assert.Equal(t, "0:00.00", st.Segments[1].SegmentTime)
	assert.Equal(t, "0:00.00", st.Segments[1].BestSegmentTime)
	assert.Equal(t, "0:30.00", st.Segments[2].SegmentTime)

	run := e.Close()
	data, err := EncodeRun(run)
	require.NoError(t, err)
	_, err = DecodeRun(data)
	assert.NoError(t, err)
}

func TestEditorFixTimesClampsLaterSplits(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.ActiveSegment().ParseAndSetSplitTime("1:00"))
	e.FixTimes()

	st := e.State()
	assert.Equal(t, "1:00.00", st.Segments[1].SplitTime)
	assert.Equal(t, "1:00.00", st.Segments[2].SplitTime)
	assert.Equal(t, "0:00.00", st.Segments[2].SegmentTime)
}

func TestEditorSetSegmentTimeShiftsLaterSplits(t *testing.T) {
	e := newTestEditor(t)
	e.SelectOnly(1)
	require.NoError(t, e.ActiveSegment().ParseAndSetSegmentTime("20"))

	st := e.State()
	assert.Equal(t, "0:30.00", st.Segments[1].SplitTime)
	assert.Equal(t, "0:45.00", st.Segments[2].SplitTime)
	assert.Equal(t, "0:15.00", st.Segments[2].SegmentTime)
	assert.Equal(t, "0:15.00", st.Segments[1].BestSegmentTime)
}

func TestEditorParseFailureLeavesValue(t *testing.T) {
	e := newTestEditor(t)
	before := e.State()
	assert.Error(t, e.ActiveSegment().ParseAndSetSplitTime("nope"))
	assert.Error(t, e.ActiveSegment().ParseAndSetBestSegmentTime("1:99"))
	assert.Error(t, e.ParseAndSetOffset(""))
	assert.Equal(t, before, e.State())
}

func TestEditorInsert(t *testing.T) {
	e := newTestEditor(t)
	e.InsertSegmentAbove()
	assert.Equal(t, []string{"", "A", "B", "C"}, names(e.State()))
	assert.Equal(t, 0, e.ActiveIndex())

	e.SelectOnly(2)
	e.InsertSegmentBelow()
	assert.Equal(t, []string{"", "A", "B", "", "C"}, names(e.State()))
	assert.Equal(t, 3, e.ActiveIndex())
}

func TestEditorMoveKeepsSegmentDurations(t *testing.T) {
	e := newTestEditor(t)
	e.MoveSegmentsDown()

	st := e.State()
	assert.Equal(t, []string{"B", "A", "C"}, names(st))
	assert.Equal(t, 1, e.ActiveIndex())
	assert.Equal(t, "0:15.00", st.Segments[0].SplitTime)
	assert.Equal(t, "0:25.00", st.Segments[1].SplitTime)
	assert.Equal(t, "0:10.00", st.Segments[1].SegmentTime)

	e.MoveSegmentsUp()
	assert.Equal(t, []string{"A", "B", "C"}, names(e.State()))
	assert.Equal(t, 0, e.ActiveIndex())

	// no target: no-op
	e.MoveSegmentsUp()
	assert.Equal(t, []string{"A", "B", "C"}, names(e.State()))
}

func TestEditorRemoveFoldsBestSegment(t *testing.T) {
	e := newTestEditor(t)
	e.SelectOnly(1)
	e.RemoveSegments()

	st := e.State()
	assert.Equal(t, []string{"A", "C"}, names(st))
	assert.Equal(t, 1, e.ActiveIndex())
	assert.Equal(t, "0:30.00", st.Segments[1].BestSegmentTime)

	e.RemoveSegments()
	assert.Equal(t, []string{"A"}, names(e.State()))
	assert.False(t, e.State().Buttons.CanRemove)

	e.RemoveSegments()
	assert.Len(t, e.State().Segments, 1)
}

func TestEditorCloseOnlyMarksRealChanges(t *testing.T) {
	e := newTestEditor(t)
	assert.False(t, e.Close().HasBeenModified())

	e.SetGameName("Other")
	assert.True(t, e.Close().HasBeenModified())

	e.SetGameName("Game")
	assert.False(t, e.Close().HasBeenModified())

	e.SetAttemptCount(7)
	run := e.Close()
	assert.True(t, run.HasBeenModified())
	assert.Equal(t, uint32(7), run.AttemptCount)
}

func TestEditorCloseKeepsExistingModifiedFlag(t *testing.T) {
	run := threeSegmentRun()
	run.MarkAsModified()
	e, err := NewRunEditor(run)
	require.NoError(t, err)
	assert.True(t, e.Close().HasBeenModified())
}

func TestEditorCloneIsIndependent(t *testing.T) {
	e := newTestEditor(t)
	c := e.Clone()
	require.NoError(t, e.ParseAndSetOffset("-3"))
	assert.Equal(t, "-0:03.00", e.State().Offset)
	assert.Equal(t, "0:00.00", c.State().Offset)
	assert.Equal(t, -3*time.Second, e.Close().Offset)
}
