package splits

import (
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Splitter/timer"
)

type fakeSwitch struct {
	active      bool
	activations int
	failOn      error
}

func (f *fakeSwitch) Activate() error {
	f.active = true
	f.activations++
	return f.failOn
}

func (f *fakeSwitch) Deactivate() error {
	f.active = false
	return nil
}

func sampleRun() *timer.Run {
	return &timer.Run{
		GameName:     "Celeste",
		CategoryName: "Any%",
		AttemptCount: 3,
		Segments: []timer.Segment{
			{Name: "Forsaken City", SplitTime: timer.SpanOf(10 * time.Second), BestSegmentTime: timer.SpanOf(10 * time.Second)},
			{Name: "Old Site", SplitTime: timer.SpanOf(25 * time.Second), BestSegmentTime: timer.SpanOf(15 * time.Second)},
			{Name: "Celestial Resort", SplitTime: timer.SpanOf(45 * time.Second), BestSegmentTime: timer.SpanOf(18 * time.Second)},
		},
	}
}

func newManager(t *testing.T, run *timer.Run) (*Manager, *timer.SharedTimer, *fakeSwitch) {
	t.Helper()
	tm, err := timer.NewTimer(run)
	require.NoError(t, err)
	shared := timer.Share(tm)
	sw := &fakeSwitch{active: true}
	return NewManager(shared, sw), shared, sw
}

func assertInSync(t *testing.T, s *Session) {
	t.Helper()
	view := s.View()
	require.Len(t, view.Rows, len(view.State.Segments))
	for i, seg := range view.State.Segments {
		assert.Equal(t, rowFromState(seg), view.Rows[i], "row %d", i)
	}
}

func TestBuffersFollowStructuralEdits(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)
	assertInSync(t, s)

	ops := []func(){s.InsertAbove, s.InsertBelow, s.RemoveSelected, s.MoveUp, s.MoveDown}
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		s.SelectRow(rng.IntN(len(s.Rows())))
		ops[rng.IntN(len(ops))]()
		assertInSync(t, s)
	}
}

func TestRemoveLastRowIsIgnored(t *testing.T) {
	m, _, _ := newManager(t, timer.NewRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.RemoveSelected()
	s.MoveUp()
	s.MoveDown()
	assert.Len(t, s.Rows(), 1)
}

func TestInsertBelowActivatesNewRow(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.InsertBelow()
	assert.Len(t, s.Rows(), 4)
	assert.Equal(t, 1, s.ActiveRow())
	assert.Equal(t, RowBuffer{}, s.Rows()[1])
	assert.Equal(t, timer.Active, s.State().Segments[1].Selected)
}

func TestInvalidInputRoundTrip(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)
	before := s.Rows()

	// "0:2" parses and is applied before the typo arrives; best segments wait for the blur.
	s.TypeField(FieldSplitTime, 1, "0:2")
	assert.Equal(t, "0:02.00", s.State().Segments[1].SplitTime)
	assert.Equal(t, "0:15.00", s.State().Segments[1].BestSegmentTime)
	s.TypeField(FieldSplitTime, 1, "0:2x")
	assert.Equal(t, "0:2x", s.Rows()[1].SplitTime)

	s.BlurField(FieldSplitTime, 1)
	assert.Equal(t, before, s.Rows())
	assertInSync(t, s)
}

func TestSplitTypedKeyByKeySettlesOnBlur(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	for _, text := range []string{"0", "0:", "0:3", "0:30"} {
		s.TypeField(FieldSplitTime, 1, text)
	}
	s.BlurField(FieldSplitTime, 1)

	rows := s.Rows()
	assert.Equal(t, RowBuffer{SplitTime: "0:10.00", SegmentTime: "0:10.00", BestSegmentTime: "0:10.00"}, rows[0])
	assert.Equal(t, RowBuffer{SplitTime: "0:30.00", SegmentTime: "0:20.00", BestSegmentTime: "0:15.00"}, rows[1])
	assert.Equal(t, RowBuffer{SplitTime: "0:45.00", SegmentTime: "0:15.00", BestSegmentTime: "0:15.00"}, rows[2])
	assertInSync(t, s)
}

func TestBackwardSplitIsClampedAndReloads(t *testing.T) {
	m, shared, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.TypeField(FieldSplitTime, 1, "0:2")
	s.BlurField(FieldSplitTime, 1)
	assert.Equal(t, RowBuffer{SplitTime: "0:10.00", SegmentTime: "0:00.00", BestSegmentTime: "0:00.00"}, s.Rows()[1])
	assert.Equal(t, "0:35.00", s.Rows()[2].SegmentTime)
	require.NoError(t, m.Close(true))

	path := filepath.Join(t.TempDir(), "celeste.json")
	require.NoError(t, shared.SaveRunFile(path))
	require.NoError(t, shared.LoadRunFile(path))

	run := shared.CloneRun()
	assert.Equal(t, timer.SpanOf(10*time.Second), run.Segments[1].SplitTime)
	assert.Equal(t, timer.SpanOf(0), run.Segments[1].BestSegmentTime)
	assert.Equal(t, timer.SpanOf(18*time.Second), run.Segments[2].BestSegmentTime)
}

func TestUnblurredSplitSettlesOnCommit(t *testing.T) {
	m, shared, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.TypeField(FieldSplitTime, 2, "0:5")
	require.NoError(t, m.Close(true))

	run := shared.CloneRun()
	assert.Equal(t, timer.SpanOf(25*time.Second), run.Segments[2].SplitTime)
	assert.Equal(t, timer.SpanOf(0), run.Segments[2].BestSegmentTime)
}

func TestValidSplitEditResyncsNeighbours(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.TypeField(FieldSegmentTime, 0, "12")
	s.BlurField(FieldSegmentTime, 0)

	rows := s.Rows()
	assert.Equal(t, "0:12.00", rows[0].SplitTime)
	assert.Equal(t, "0:27.00", rows[1].SplitTime)
	assert.Equal(t, "0:47.00", rows[2].SplitTime)
	assertInSync(t, s)
}

func TestBestSegmentEditIsRowScoped(t *testing.T) {
	m, _, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.TypeField(FieldBestSegmentTime, 2, "0:17.5")
	assert.Equal(t, 2, s.ActiveRow())
	s.BlurField(FieldBestSegmentTime, 2)
	assert.Equal(t, "0:17.50", s.Rows()[2].BestSegmentTime)
	assertInSync(t, s)
}

func TestOffsetAppliedOnBlurOrClose(t *testing.T) {
	m, shared, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.TypeOffset("soon")
	s.BlurOffset()
	assert.Equal(t, "0:00.00", s.Offset())

	s.TypeOffset("-1.5")
	require.NoError(t, m.Close(true))
	assert.Equal(t, -1500*time.Millisecond, shared.CloneRun().Offset)
	assert.True(t, shared.IsDirty())
}

func TestNoOpCommitKeepsModifiedFlag(t *testing.T) {
	for _, dirty := range []bool{false, true} {
		run := sampleRun()
		if dirty {
			run.MarkAsModified()
		}
		m, shared, _ := newManager(t, run)
		var rev uint64
		shared.Read(func(tm *timer.Timer) { rev = tm.Revision() })

		_, err := m.Open()
		require.NoError(t, err)
		require.NoError(t, m.Close(true))

		assert.Equal(t, dirty, shared.IsDirty())
		shared.Read(func(tm *timer.Timer) { assert.Equal(t, rev, tm.Revision()) })
	}
}

func TestDiscardLeavesCanonicalRun(t *testing.T) {
	m, shared, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.SetGameName("Hollow Knight")
	s.SetAttempts("abc")
	assert.Equal(t, uint32(3), s.State().AttemptCount)
	s.SetAttempts(" 12 ")
	assert.Equal(t, uint32(12), s.State().AttemptCount)

	require.NoError(t, m.Close(false))
	assert.Equal(t, "Celeste", shared.CloneRun().GameName)
	assert.False(t, shared.IsDirty())
}

func TestCommitReplacesCanonicalRun(t *testing.T) {
	m, shared, _ := newManager(t, sampleRun())
	s, err := m.Open()
	require.NoError(t, err)

	s.SetSegmentName(1, "Old Site (B-side)")
	assert.Equal(t, 1, s.ActiveRow())
	require.NoError(t, m.Close(true))

	run := shared.CloneRun()
	assert.Equal(t, "Old Site (B-side)", run.Segments[1].Name)
	assert.True(t, run.HasBeenModified())
}

func TestSessionLifecycle(t *testing.T) {
	m, _, sw := newManager(t, sampleRun())
	assert.ErrorIs(t, m.Close(true), ErrSessionClosed)

	s, err := m.Open()
	require.NoError(t, err)
	assert.False(t, sw.active)
	assert.Same(t, s, m.Session())

	_, err = m.Open()
	assert.ErrorIs(t, err, ErrSessionOpen)
	assert.Same(t, s, m.Session())

	require.NoError(t, m.Close(false))
	assert.True(t, sw.active)
	assert.False(t, m.IsOpen())
	assert.Nil(t, m.Session())
}

func TestCloseReportsHotkeyFailure(t *testing.T) {
	m, _, sw := newManager(t, sampleRun())
	sw.failOn = errors.New("listener stopped")

	_, err := m.Open()
	require.NoError(t, err)
	err = m.Close(false)
	assert.ErrorIs(t, err, sw.failOn)
	assert.False(t, m.IsOpen())
}
