package timer

import (
	"errors"
	"slices"
	"time"
)

// ErrEmptyRun is returned when a run without segments is handed to the timer or editor.
var ErrEmptyRun = errors.New("run has no segments")

// Segment is one row of a run. SplitTime is cumulative from the start of the run.
type Segment struct {
	Name            string
	SplitTime       Span
	BestSegmentTime Span
}

// Run holds the personal-best data the timer compares against.
type Run struct {
	GameName     string
	CategoryName string
	AttemptCount uint32
	Offset       time.Duration
	Segments     []Segment

	modified bool
}

// NewRun creates a valid run with a single segment.
func NewRun() *Run {
	return &Run{
		GameName:     "Game",
		CategoryName: "Category",
		Segments:     []Segment{{Name: "Time"}},
	}
}

// Clone returns a deep copy, including the modified flag.
func (r *Run) Clone() *Run {
	c := *r
	c.Segments = slices.Clone(r.Segments)
	return &c
}

// Validate checks the structural invariants a timer relies on.
func (r *Run) Validate() error {
	if r == nil || len(r.Segments) == 0 {
		return ErrEmptyRun
	}
	return nil
}

// Equal compares content only; the modified flag is ignored.
func (r *Run) Equal(o *Run) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.GameName == o.GameName &&
		r.CategoryName == o.CategoryName &&
		r.AttemptCount == o.AttemptCount &&
		r.Offset == o.Offset &&
		slices.Equal(r.Segments, o.Segments)
}

// HasBeenModified reports whether the run changed since it was last loaded or saved.
func (r *Run) HasBeenModified() bool {
	return r.modified
}

// MarkAsModified flags the run as having unsaved changes.
func (r *Run) MarkAsModified() {
	r.modified = true
}

// MarkAsUnmodified clears the unsaved-changes flag.
func (r *Run) MarkAsUnmodified() {
	r.modified = false
}

// SegmentTimes derives each segment's own duration from the cumulative split times.
// A segment whose split is empty has an empty segment time; the next set split is
// measured from the last set split before it.
func (r *Run) SegmentTimes() []Span {
	out := make([]Span, len(r.Segments))
	var prev time.Duration
	for i, seg := range r.Segments {
		if d, ok := seg.SplitTime.Duration(); ok {
			out[i] = SpanOf(d - prev)
			prev = d
		}
	}
	return out
}

// SumOfBest adds up all best segments. It is empty if any best segment is missing.
func (r *Run) SumOfBest() Span {
	var total time.Duration
	for _, seg := range r.Segments {
		d, ok := seg.BestSegmentTime.Duration()
		if !ok {
			return Span{}
		}
		total += d
	}
	return SpanOf(total)
}

// FinalTime is the split time of the last segment.
func (r *Run) FinalTime() Span {
	if len(r.Segments) == 0 {
		return Span{}
	}
	return r.Segments[len(r.Segments)-1].SplitTime
}

// fixSplits raises every split time that is earlier than the last set split
// before it, so no segment time is negative.
func (r *Run) fixSplits() {
	var last time.Duration
	for i := range r.Segments {
		d, ok := r.Segments[i].SplitTime.Duration()
		if !ok {
			continue
		}
		if d < last {
			r.Segments[i].SplitTime = SpanOf(last)
			continue
		}
		last = d
	}
}

// fixBestSegments lowers every best segment that is slower than the run's own segment time.
// Segment times spanning a skipped split cover several segments and are ignored.
func (r *Run) fixBestSegments() {
	for i, st := range r.SegmentTimes() {
		if i > 0 && r.Segments[i-1].SplitTime.IsEmpty() {
			continue
		}
		if d, ok := st.Duration(); ok && d < 0 {
			continue
		}
		if st.Less(r.Segments[i].BestSegmentTime) {
			r.Segments[i].BestSegmentTime = st
		}
	}
}
