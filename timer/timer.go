// Package timer contains the timing domain: the Run with its segments, the Timer
// phase state machine, the RunEditor used by the splits dialog and the SharedTimer
// handle through which every goroutine reaches the canonical model.
//
// Maintenance notes:
//   - Timer and Run are not safe for concurrent use on their own. The UI dispatcher
//     and the hotkey listener both reach them, so all access goes through
//     SharedTimer.Read / SharedTimer.Write. A lock boundary is a transaction
//     boundary: never hand a *Timer or *Run obtained inside a callback to code
//     that runs after the callback returns. Clone instead.
//   - A panic inside Write poisons the handle. Consistency can no longer be
//     guaranteed after that, so every later access panics with ErrPoisoned.
package timer

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPoisoned is the panic value raised when a SharedTimer is used after a writer panicked.
var ErrPoisoned = errors.New("timer lock poisoned")

// ErrMidRun is returned when an operation needs the timer to be stopped.
var ErrMidRun = errors.New("timer is running")

// Phase defines the possible states of a timer.
type Phase int

const (
	PhaseNotRunning Phase = iota
	PhaseRunning
	PhasePaused
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	case PhaseEnded:
		return "Ended"
	}
	return "NotRunning"
}

// TimingMethod selects which clock the view compares against.
type TimingMethod int

const (
	RealTime TimingMethod = iota
	GameTime
)

func (m TimingMethod) String() string {
	if m == GameTime {
		return "Game Time"
	}
	return "Real Time"
}

// Comparisons lists the comparisons the timer can switch between.
var Comparisons = []string{"Personal Best", "Best Segments"}

// Timer is the run/timer state machine.
type Timer struct {
	run   *Run
	phase Phase
	now   func() time.Time

	startedAt  time.Time
	pausedAt   time.Time
	pauseTime  time.Duration
	splitIndex int
	attempt    []Span

	comparison int
	method     TimingMethod
	revision   uint64
}

// NewTimer creates a timer for run. The run must contain at least one segment.
func NewTimer(run *Run) (*Timer, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return &Timer{run: run, now: time.Now}, nil
}

// SetClock replaces the wall clock. Used by tests.
func (t *Timer) SetClock(now func() time.Time) {
	t.now = now
}

// Run returns the run. The pointer is only valid inside the current lock transaction.
func (t *Timer) Run() *Run {
	return t.run
}

// CurrentPhase returns the current phase.
func (t *Timer) CurrentPhase() Phase {
	return t.phase
}

// IsMidRun reports whether an attempt is running or paused.
func (t *Timer) IsMidRun() bool {
	return t.phase == PhaseRunning || t.phase == PhasePaused
}

// Revision increases with every change to the run. Savers use it to detect edits
// that happened while a file was being written.
func (t *Timer) Revision() uint64 {
	return t.revision
}

// MarkAsUnmodified clears the run's unsaved-changes flag.
func (t *Timer) MarkAsUnmodified() {
	t.run.MarkAsUnmodified()
}

// ReplaceRun swaps in a new run. The current attempt is reset first. The incoming
// run's modified flag is kept as is, so replacing with an unchanged run does not
// dirty the model.
func (t *Timer) ReplaceRun(run *Run, saveAttempt bool) error {
	if err := run.Validate(); err != nil {
		return err
	}
	t.Reset(saveAttempt)
	t.run = run
	t.revision++
	return nil
}

// CurrentTime returns the time shown on the timer, including the run's offset.
func (t *Timer) CurrentTime() time.Duration {
	switch t.phase {
	case PhaseRunning:
		return t.now().Sub(t.startedAt) - t.pauseTime + t.run.Offset
	case PhasePaused:
		return t.pausedAt.Sub(t.startedAt) - t.pauseTime + t.run.Offset
	case PhaseEnded:
		if d, ok := t.attempt[len(t.attempt)-1].Duration(); ok {
			return d
		}
	}
	return t.run.Offset
}

func (t *Timer) start() {
	t.phase = PhaseRunning
	t.startedAt = t.now()
	t.pauseTime = 0
	t.splitIndex = 0
	t.attempt = make([]Span, len(t.run.Segments))
}

// Split starts the timer or records the current split.
func (t *Timer) Split() {
	switch t.phase {
	case PhaseNotRunning:
		t.start()
	case PhaseRunning:
		if t.CurrentTime() < 0 {
			return
		}
		t.attempt[t.splitIndex] = SpanOf(t.CurrentTime())
		t.splitIndex++
		if t.splitIndex == len(t.attempt) {
			t.phase = PhaseEnded
		}
	}
}

// SkipSplit leaves the current split empty and moves on. The last split cannot be skipped.
func (t *Timer) SkipSplit() {
	if !t.IsMidRun() || t.splitIndex >= len(t.attempt)-1 {
		return
	}
	t.attempt[t.splitIndex] = Span{}
	t.splitIndex++
}

// UndoSplit reverts the most recent split.
func (t *Timer) UndoSplit() {
	if t.phase == PhaseNotRunning || t.splitIndex == 0 {
		return
	}
	if t.phase == PhaseEnded {
		t.phase = PhaseRunning
	}
	t.splitIndex--
	t.attempt[t.splitIndex] = Span{}
}

// TogglePause pauses a running timer, resumes a paused one and starts a stopped one.
func (t *Timer) TogglePause() {
	switch t.phase {
	case PhaseNotRunning:
		t.start()
	case PhaseRunning:
		t.phase = PhasePaused
		t.pausedAt = t.now()
	case PhasePaused:
		t.phase = PhaseRunning
		t.pauseTime += t.now().Sub(t.pausedAt)
	}
}

// UndoAllPauses resumes the timer and removes all paused time from the attempt.
func (t *Timer) UndoAllPauses() {
	switch t.phase {
	case PhasePaused:
		t.phase = PhaseRunning
		t.pauseTime = 0
	case PhaseRunning:
		t.pauseTime = 0
	}
}

// SwitchComparison cycles through Comparisons. dir is +1 or -1.
func (t *Timer) SwitchComparison(dir int) {
	n := len(Comparisons)
	t.comparison = ((t.comparison+dir)%n + n) % n
}

// ToggleTimingMethod flips between real time and game time.
func (t *Timer) ToggleTimingMethod() {
	if t.method == RealTime {
		t.method = GameTime
	} else {
		t.method = RealTime
	}
}

// Reset ends the attempt. With saveAttempt set, the attempt counter, best segments and
// (for a finished, faster attempt) the personal best are updated.
func (t *Timer) Reset(saveAttempt bool) {
	if t.phase == PhaseNotRunning {
		return
	}
	if saveAttempt {
		t.saveAttempt()
	}
	t.phase = PhaseNotRunning
	t.splitIndex = 0
	t.pauseTime = 0
	t.attempt = nil
}

func (t *Timer) saveAttempt() {
	t.run.AttemptCount++

	var prev time.Duration
	prevSet := true
	for i, s := range t.attempt {
		d, ok := s.Duration()
		if !ok {
			prevSet = false
			continue
		}
		if prevSet {
			seg := SpanOf(d - prev)
			if seg.Less(t.run.Segments[i].BestSegmentTime) {
				t.run.Segments[i].BestSegmentTime = seg
			}
		}
		prev = d
		prevSet = true
	}

	if t.phase == PhaseEnded {
		final := t.attempt[len(t.attempt)-1]
		if final.Less(t.run.FinalTime()) {
			for i := range t.run.Segments {
				t.run.Segments[i].SplitTime = t.attempt[i]
			}
		}
	}

	t.run.MarkAsModified()
	t.revision++
}

// SegmentSnapshot is one row of a Snapshot.
type SegmentSnapshot struct {
	Name       string
	Comparison Span
	Attempt    Span
}

// Snapshot is an atomic copy of the fields the live view renders.
type Snapshot struct {
	Phase        Phase
	CurrentTime  time.Duration
	SplitIndex   int
	GameName     string
	CategoryName string
	AttemptCount uint32
	Comparison   string
	Method       TimingMethod
	Modified     bool
	SumOfBest    Span
	Segments     []SegmentSnapshot
}

// Snapshot returns a consistent copy of the timer state for UI use.
func (t *Timer) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        t.phase,
		CurrentTime:  t.CurrentTime(),
		SplitIndex:   t.splitIndex,
		GameName:     t.run.GameName,
		CategoryName: t.run.CategoryName,
		AttemptCount: t.run.AttemptCount,
		Comparison:   Comparisons[t.comparison],
		Method:       t.method,
		Modified:     t.run.HasBeenModified(),
		SumOfBest:    t.run.SumOfBest(),
		Segments:     make([]SegmentSnapshot, len(t.run.Segments)),
	}

	var bestSum time.Duration
	bestOK := true
	for i, seg := range t.run.Segments {
		row := SegmentSnapshot{Name: seg.Name, Comparison: seg.SplitTime}
		if snap.Comparison == Comparisons[1] {
			d, ok := seg.BestSegmentTime.Duration()
			bestOK = bestOK && ok
			bestSum += d
			row.Comparison = Span{}
			if bestOK {
				row.Comparison = SpanOf(bestSum)
			}
		}
		if i < len(t.attempt) {
			row.Attempt = t.attempt[i]
		}
		snap.Segments[i] = row
	}
	return snap
}

// SharedTimer is the reader/writer locked handle to the canonical Timer.
type SharedTimer struct {
	mu       sync.RWMutex
	timer    *Timer
	poisoned atomic.Bool
}

// Share wraps t for concurrent use.
func Share(t *Timer) *SharedTimer {
	return &SharedTimer{timer: t}
}

// Read runs fn under the read lock.
func (s *SharedTimer) Read(fn func(t *Timer)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.checkPoisoned()
	fn(s.timer)
}

// Write runs fn under the write lock. A panic in fn poisons the handle.
func (s *SharedTimer) Write(fn func(t *Timer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkPoisoned()
	defer s.poisonOnPanic()
	fn(s.timer)
}

func (s *SharedTimer) checkPoisoned() {
	if s.poisoned.Load() {
		panic(ErrPoisoned)
	}
}

func (s *SharedTimer) poisonOnPanic() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		panic(r)
	}
}

// Snapshot takes a Snapshot under the read lock.
func (s *SharedTimer) Snapshot() (snap Snapshot) {
	s.Read(func(t *Timer) { snap = t.Snapshot() })
	return snap
}

// IsMidRun reports whether the timer is running or paused.
func (s *SharedTimer) IsMidRun() (mid bool) {
	s.Read(func(t *Timer) { mid = t.IsMidRun() })
	return mid
}

// IsDirty reports whether the run has unsaved modifications.
func (s *SharedTimer) IsDirty() (dirty bool) {
	s.Read(func(t *Timer) { dirty = t.run.HasBeenModified() })
	return dirty
}

// CloneRun copies the run under the read lock.
func (s *SharedTimer) CloneRun() (run *Run) {
	s.Read(func(t *Timer) { run = t.run.Clone() })
	return run
}
