package splits

import "Splitter/timer"

// Field names one of the three editable time columns of a row.
type Field int

const (
	FieldSplitTime Field = iota
	FieldSegmentTime
	FieldBestSegmentTime
)

func (f Field) String() string {
	switch f {
	case FieldSegmentTime:
		return "segment time"
	case FieldBestSegmentTime:
		return "best segment time"
	}
	return "split time"
}

// RowBuffer holds the text currently shown in one row's time fields. It may
// differ from the formatted model value while the user is typing.
type RowBuffer struct {
	SplitTime       string
	SegmentTime     string
	BestSegmentTime string
}

func (r *RowBuffer) field(f Field) *string {
	switch f {
	case FieldSegmentTime:
		return &r.SegmentTime
	case FieldBestSegmentTime:
		return &r.BestSegmentTime
	}
	return &r.SplitTime
}

// Get returns the buffer text for f.
func (r RowBuffer) Get(f Field) string {
	return *r.field(f)
}

func rowFromState(seg timer.SegmentState) RowBuffer {
	return RowBuffer{
		SplitTime:       seg.SplitTime,
		SegmentTime:     seg.SegmentTime,
		BestSegmentTime: seg.BestSegmentTime,
	}
}

// canonical returns the formatted model value for f.
func canonical(seg timer.SegmentState, f Field) string {
	r := rowFromState(seg)
	return r.Get(f)
}

// Resync reformats every row buffer and the offset buffer from the editor. It
// must follow every structural mutation before any other event is handled.
func (s *Session) Resync() {
	s.refresh()
	s.rows = make([]RowBuffer, len(s.state.Segments))
	for i, seg := range s.state.Segments {
		s.rows[i] = rowFromState(seg)
	}
	s.offset = s.state.Offset
}

// ResyncRow reformats a single row, for edits whose effects stay inside that row.
func (s *Session) ResyncRow(i int) {
	s.refresh()
	if i < 0 || i >= len(s.rows) || i >= len(s.state.Segments) {
		return
	}
	s.rows[i] = rowFromState(s.state.Segments[i])
}

// TypeField handles a keystroke in a time field. The typed text becomes the
// buffer as is and is applied to the editor if it parses; parse failures are
// ignored until the field loses focus.
func (s *Session) TypeField(f Field, row int, text string) {
	if row < 0 || row >= len(s.rows) {
		return
	}
	if row != s.editor.ActiveIndex() {
		s.SelectRow(row)
	}
	if s.checkpoint == nil {
		s.checkpoint = s.editor.Clone()
	}

	*s.rows[row].field(f) = text

	seg := s.editor.ActiveSegment()
	switch f {
	case FieldSplitTime:
		_ = seg.ParseAndSetSplitTime(text)
		s.unsettled = true
	case FieldSegmentTime:
		_ = seg.ParseAndSetSegmentTime(text)
		s.unsettled = true
	case FieldBestSegmentTime:
		_ = seg.ParseAndSetBestSegmentTime(text)
	}
	s.refresh()
}

// BlurField finalizes a time field when it loses focus. Unparsable text rolls
// the editor back to where it was before the first keystroke of this edit and
// the buffers are reformatted. Parsable text is kept and the affected rows are
// reformatted: split and segment times are settled with FixTimes and can
// shift neighbouring rows, best segment times only touch their own row.
func (s *Session) BlurField(f Field, row int) {
	if row < 0 || row >= len(s.rows) {
		return
	}
	_, err := timer.ParseSpan(s.rows[row].Get(f))
	restored := false
	if err != nil && s.checkpoint != nil {
		s.editor = s.checkpoint
		s.unsettled = false
		restored = true
	}
	s.checkpoint = nil

	switch {
	case restored:
		s.Resync()
	case err != nil:
		s.refresh()
		*s.rows[row].field(f) = canonical(s.state.Segments[row], f)
	case f == FieldBestSegmentTime:
		s.ResyncRow(row)
	default:
		s.settle()
		s.Resync()
	}
}

// settle runs FixTimes once the keystrokes of a time edit are final, so
// intermediate values never clamp splits or lower best segments.
func (s *Session) settle() {
	if !s.unsettled {
		return
	}
	s.editor.FixTimes()
	s.unsettled = false
	s.refresh()
}

// TypeOffset replaces the offset buffer. The offset is only applied on blur or close.
func (s *Session) TypeOffset(text string) {
	s.offset = text
}

// BlurOffset applies the offset buffer, or resets it to the current offset if it does not parse.
func (s *Session) BlurOffset() {
	err := s.editor.ParseAndSetOffset(s.offset)
	s.refresh()
	if err != nil {
		s.offset = s.state.Offset
	}
}
