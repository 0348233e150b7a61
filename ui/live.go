package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Splitter/i18n"
	splitlayout "Splitter/layout"
	"Splitter/timer"
)

type splitRow struct {
	name *widget.Label
	time *widget.Label
	bg   *canvas.Rectangle
	obj  fyne.CanvasObject
}

func newSplitRow() *splitRow {
	r := &splitRow{
		name: widget.NewLabel(""),
		time: widget.NewLabel(""),
		bg:   canvas.NewRectangle(color.Transparent),
	}
	r.name.Truncation = fyne.TextTruncateEllipsis
	r.obj = container.NewStack(r.bg, container.NewBorder(nil, nil, nil, r.time, r.name))
	return r
}

// liveView renders the running timer. It reports its own size changes so the
// layout can follow the window.
type liveView struct {
	widget.BaseWidget

	title    *widget.Label
	attempts *widget.Label
	rows     []*splitRow
	rowBox   *fyne.Container
	timeText *canvas.Text
	sumText  *widget.Label
	content  fyne.CanvasObject

	size     fyne.Size
	onResize func(fyne.Size)
}

func newLiveView(onResize func(fyne.Size)) *liveView {
	v := &liveView{
		title:    widget.NewLabel(""),
		attempts: widget.NewLabel(""),
		rowBox:   container.NewVBox(),
		timeText: canvas.NewText(timer.FormatTime(0), color.White),
		sumText:  widget.NewLabel(""),
		onResize: onResize,
	}
	v.title.Alignment = fyne.TextAlignCenter
	v.title.TextStyle.Bold = true
	v.attempts.Alignment = fyne.TextAlignTrailing
	v.timeText.Alignment = fyne.TextAlignTrailing
	v.timeText.TextStyle.Monospace = true
	v.timeText.TextStyle.Bold = true

	header := container.NewVBox(v.title, v.attempts)
	footer := container.NewVBox(v.timeText, v.sumText)
	v.content = container.NewBorder(header, footer, nil, nil, container.NewVBox(v.rowBox, layout.NewSpacer()))
	v.ExtendBaseWidget(v)
	return v
}

func (v *liveView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.content)
}

func (v *liveView) Resize(s fyne.Size) {
	v.BaseWidget.Resize(s)
	if s == v.size {
		return
	}
	v.size = s
	if v.onResize != nil {
		v.onResize(s)
	}
}

// update must run on the UI thread.
func (v *liveView) update(snap timer.Snapshot, l splitlayout.Layout) {
	v.title.SetText(fmt.Sprintf("%s - %s", snap.GameName, snap.CategoryName))
	showIf(v.title, l.ShowTitle)
	v.attempts.SetText(fmt.Sprintf("%s: %d", i18n.T("Attempts"), snap.AttemptCount))
	showIf(v.attempts, l.ShowAttempts)

	start, end := visibleWindow(len(snap.Segments), snap.SplitIndex, l.VisibleSplits)
	v.ensureRows(end - start)
	for i, r := range v.rows {
		idx := start + i
		seg := snap.Segments[idx]
		r.name.SetText(seg.Name)
		r.time.SetText(splitText(seg, idx < snap.SplitIndex))

		current := idx == snap.SplitIndex && snap.Phase != timer.PhaseNotRunning
		fill := color.Color(color.Transparent)
		if current {
			fill = withAlpha(colorCurrent, 0x80)
		}
		if r.bg.FillColor != fill {
			r.bg.FillColor = fill
			r.bg.Refresh()
		}
	}

	v.timeText.Text = timer.FormatTime(snap.CurrentTime)
	v.timeText.TextSize = l.TimerTextSize
	v.timeText.Color = phaseColor(snap.Phase)
	v.timeText.Refresh()

	v.sumText.SetText(fmt.Sprintf("%s: %s", i18n.T("Sum of Best"), dashIfEmpty(timer.FormatSpan(snap.SumOfBest))))
	showIf(v.sumText, l.ShowSumOfBest)
}

func (v *liveView) ensureRows(n int) {
	if len(v.rows) == n {
		return
	}
	v.rows = v.rows[:0]
	objs := make([]fyne.CanvasObject, n)
	for i := 0; i < n; i++ {
		r := newSplitRow()
		v.rows = append(v.rows, r)
		objs[i] = r.obj
	}
	v.rowBox.Objects = objs
	v.rowBox.Refresh()
}

// visibleWindow picks which of total rows to draw, keeping the current split
// and the one after it on screen.
func visibleWindow(total, current, visible int) (start, end int) {
	n := min(total, max(visible, 0))
	if n == 0 {
		return 0, 0
	}
	current = min(current, total-1)
	start = max(0, min(current+2-n, total-n))
	return start, start + n
}

// splitText shows the attempt's time for completed splits and the comparison otherwise.
func splitText(seg timer.SegmentSnapshot, done bool) string {
	if done && !seg.Attempt.IsEmpty() {
		return timer.FormatSpan(seg.Attempt)
	}
	return dashIfEmpty(timer.FormatSpan(seg.Comparison))
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func phaseColor(p timer.Phase) color.Color {
	switch p {
	case timer.PhaseRunning:
		return colorRunning
	case timer.PhasePaused:
		return withAlpha(theme.Color(theme.ColorNameForeground), 0x99)
	case timer.PhaseEnded:
		return colorEnded
	}
	return theme.Color(theme.ColorNameForeground)
}

func showIf(o fyne.CanvasObject, visible bool) {
	if visible == o.Visible() {
		return
	}
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}
