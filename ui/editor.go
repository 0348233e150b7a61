package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"Splitter/control"
	"Splitter/i18n"
	"Splitter/splits"
)

var timeFields = [...]splits.Field{splits.FieldSplitTime, splits.FieldSegmentTime, splits.FieldBestSegmentTime}

type editorRow struct {
	name  *focusEntry
	times [len(timeFields)]*focusEntry
	bg    *canvas.Rectangle
	obj   fyne.CanvasObject
}

// editorWindow mirrors a splits.Session. Every change the user makes is
// posted as an edit and the window is redrawn from the View that comes back.
type editorWindow struct {
	win  fyne.Window
	post func(control.Event)

	game, category, attempts, offset *focusEntry

	rows   []*editorRow
	rowBox *fyne.Container

	ops map[splits.Op]*widget.Button

	commit  bool
	syncing bool
}

func newEditorWindow(a fyne.App, post func(control.Event), onClosed func()) *editorWindow {
	e := &editorWindow{
		win:      a.NewWindow(i18n.T("Edit Splits")),
		post:     post,
		game:     newFocusEntry(),
		category: newFocusEntry(),
		attempts: newFocusEntry(),
		offset:   newFocusEntry(),
		rowBox:   container.NewVBox(),
		ops:      make(map[splits.Op]*widget.Button),
		commit:   true,
	}

	e.game.OnChanged = func(s string) { e.edit(splits.GameNameChanged{Name: s}) }
	e.category.OnChanged = func(s string) { e.edit(splits.CategoryNameChanged{Name: s}) }
	e.attempts.OnChanged = func(s string) { e.edit(splits.AttemptsChanged{Text: s}) }
	e.offset.OnChanged = func(s string) { e.edit(splits.OffsetTyped{Text: s}) }
	e.offset.onFocus = func(focused bool) {
		if !focused {
			e.edit(splits.OffsetBlurred{})
		}
	}

	form := widget.NewForm(
		widget.NewFormItem(i18n.T("Game"), e.game),
		widget.NewFormItem(i18n.T("Category"), e.category),
		widget.NewFormItem(i18n.T("Attempts"), e.attempts),
		widget.NewFormItem(i18n.T("Offset"), e.offset),
	)

	header := container.NewGridWithColumns(4,
		widget.NewLabel(i18n.T("Segment Name")),
		widget.NewLabel(i18n.T("Split Time")),
		widget.NewLabel(i18n.T("Segment Time")),
		widget.NewLabel(i18n.T("Best Segment")),
	)

	opButton := func(label string, op splits.Op) *widget.Button {
		b := widget.NewButton(i18n.T(label), func() { e.edit(splits.RowsChanged{Op: op}) })
		e.ops[op] = b
		return b
	}
	side := container.NewVBox(
		opButton("Insert Above", splits.OpInsertAbove),
		opButton("Insert Below", splits.OpInsertBelow),
		opButton("Remove Segment", splits.OpRemove),
		opButton("Move Up", splits.OpMoveUp),
		opButton("Move Down", splits.OpMoveDown),
	)

	ok := &widget.Button{Text: i18n.T("OK"), Importance: widget.HighImportance, OnTapped: func() {
		e.commit = true
		e.win.Close()
	}}
	cancel := widget.NewButton(i18n.T("Cancel"), func() {
		e.commit = false
		e.win.Close()
	})

	table := container.NewBorder(header, nil, nil, nil, container.NewVScroll(e.rowBox))
	e.win.SetContent(container.NewBorder(form, container.NewGridWithColumns(2, cancel, ok), nil, side, table))
	e.win.Resize(fyne.NewSize(720, 480))
	e.win.SetOnClosed(func() {
		e.post(control.WindowClosed{Window: control.EditSplitsWindow, Commit: e.commit})
		onClosed()
	})
	return e
}

func (e *editorWindow) edit(ed splits.Edit) {
	if e.syncing {
		return
	}
	e.post(control.EditorEvent{Edit: ed})
}

func (e *editorWindow) newRow(i int) *editorRow {
	r := &editorRow{name: newFocusEntry(), bg: canvas.NewRectangle(color.Transparent)}
	selectRow := func(focused bool) {
		if focused {
			e.edit(splits.RowSelected{Row: i})
		}
	}
	r.name.onFocus = selectRow
	r.name.OnChanged = func(s string) { e.edit(splits.SegmentNameChanged{Row: i, Name: s}) }

	cells := []fyne.CanvasObject{r.name}
	for j, f := range timeFields {
		f := f
		entry := newFocusEntry()
		entry.OnChanged = func(s string) { e.edit(splits.FieldTyped{Field: f, Row: i, Text: s}) }
		entry.onFocus = func(focused bool) {
			if focused {
				e.edit(splits.RowSelected{Row: i})
			} else {
				e.edit(splits.FieldBlurred{Field: f, Row: i})
			}
		}
		r.times[j] = entry
		cells = append(cells, entry)
	}
	r.obj = container.NewStack(r.bg, container.NewGridWithColumns(len(cells), cells...))
	return r
}

// sync redraws the window from v. The focused entry is left alone so typing
// is never interrupted by a stale echo.
func (e *editorWindow) sync(v splits.View) {
	e.syncing = true
	defer func() { e.syncing = false }()

	if len(e.rows) != len(v.Rows) {
		e.win.Canvas().Unfocus()
		e.rows = e.rows[:0]
		objs := make([]fyne.CanvasObject, len(v.Rows))
		for i := range v.Rows {
			r := e.newRow(i)
			e.rows = append(e.rows, r)
			objs[i] = r.obj
		}
		e.rowBox.Objects = objs
		e.rowBox.Refresh()
	}

	focused := e.win.Canvas().Focused()
	set := func(entry *focusEntry, text string) {
		if entry.Text == text || focused == fyne.Focusable(entry) {
			return
		}
		entry.SetText(text)
	}

	st := v.State
	set(e.game, st.Game)
	set(e.category, st.Category)
	set(e.attempts, strconv.FormatUint(uint64(st.AttemptCount), 10))
	set(e.offset, v.Offset)

	for i, r := range e.rows {
		set(r.name, st.Segments[i].Name)
		for j, f := range timeFields {
			set(r.times[j], v.Rows[i].Get(f))
		}
		fill := color.Color(color.Transparent)
		if st.Segments[i].Selected.IsSelectedOrActive() {
			fill = withAlpha(colorCurrent, 0x60)
		}
		if r.bg.FillColor != fill {
			r.bg.FillColor = fill
			r.bg.Refresh()
		}
	}

	enable(e.ops[splits.OpRemove], st.Buttons.CanRemove)
	enable(e.ops[splits.OpMoveUp], st.Buttons.CanMoveUp)
	enable(e.ops[splits.OpMoveDown], st.Buttons.CanMoveDown)
}

func enable(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
