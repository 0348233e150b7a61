package splits

// Edit is one user action in the editor window.
type Edit interface {
	applyTo(s *Session)
}

type (
	FieldTyped struct {
		Field Field
		Row   int
		Text  string
	}
	FieldBlurred struct {
		Field Field
		Row   int
	}
	OffsetTyped         struct{ Text string }
	OffsetBlurred       struct{}
	GameNameChanged     struct{ Name string }
	CategoryNameChanged struct{ Name string }
	AttemptsChanged     struct{ Text string }
	SegmentNameChanged  struct {
		Row  int
		Name string
	}
	RowSelected struct{ Row int }
	RowsChanged struct{ Op Op }
)

// Op is a structural edit of the segment list.
type Op int

const (
	OpInsertAbove Op = iota
	OpInsertBelow
	OpRemove
	OpMoveUp
	OpMoveDown
)

func (e FieldTyped) applyTo(s *Session)          { s.TypeField(e.Field, e.Row, e.Text) }
func (e FieldBlurred) applyTo(s *Session)        { s.BlurField(e.Field, e.Row) }
func (e OffsetTyped) applyTo(s *Session)         { s.TypeOffset(e.Text) }
func (OffsetBlurred) applyTo(s *Session)         { s.BlurOffset() }
func (e GameNameChanged) applyTo(s *Session)     { s.SetGameName(e.Name) }
func (e CategoryNameChanged) applyTo(s *Session) { s.SetCategoryName(e.Name) }
func (e AttemptsChanged) applyTo(s *Session)     { s.SetAttempts(e.Text) }
func (e SegmentNameChanged) applyTo(s *Session)  { s.SetSegmentName(e.Row, e.Name) }
func (e RowSelected) applyTo(s *Session)         { s.SelectRow(e.Row) }

func (e RowsChanged) applyTo(s *Session) {
	switch e.Op {
	case OpInsertAbove:
		s.InsertAbove()
	case OpInsertBelow:
		s.InsertBelow()
	case OpRemove:
		s.RemoveSelected()
	case OpMoveUp:
		s.MoveUp()
	case OpMoveDown:
		s.MoveDown()
	}
}

// Apply performs e on the session.
func (s *Session) Apply(e Edit) {
	e.applyTo(s)
}
