package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"Splitter/i18n"
	"Splitter/workflow"
)

// Prompter shows workflow dialogs on top of the main window. Its methods are
// called from chain goroutines and block until the user answers or ctx ends.
type Prompter struct {
	parent fyne.Window
}

func NewPrompter(parent fyne.Window) *Prompter {
	return &Prompter{parent: parent}
}

func (p *Prompter) Confirm(ctx context.Context, title, message string) (bool, error) {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, func(ok bool) { answer <- ok }, p.parent)
	})
	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Prompter) AskSave(ctx context.Context, title, message string) (workflow.Choice, error) {
	answer := make(chan workflow.Choice, 1)
	choose := func(c workflow.Choice) {
		select {
		case answer <- c:
		default:
		}
	}

	fyne.Do(func() {
		d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(message), p.parent)
		button := func(label string, c workflow.Choice, imp widget.Importance) *widget.Button {
			return &widget.Button{Text: i18n.T(label), Importance: imp, OnTapped: func() {
				choose(c)
				d.Hide()
			}}
		}
		d.SetButtons([]fyne.CanvasObject{
			button("Cancel", workflow.ChoiceCancel, widget.MediumImportance),
			button("Discard", workflow.ChoiceDiscard, widget.DangerImportance),
			button("Save", workflow.ChoiceSave, widget.HighImportance),
		})
		// Dismissing the dialog any other way counts as Cancel.
		d.SetOnClosed(func() { choose(workflow.ChoiceCancel) })
		d.Show()
	})

	select {
	case c := <-answer:
		return c, nil
	case <-ctx.Done():
		return workflow.ChoiceCancel, ctx.Err()
	}
}

type pickResult struct {
	path string
	ok   bool
	err  error
}

// SavePath asks for a target file. The file is not opened or created here;
// writing happens later, when the chain commits.
func (p *Prompter) SavePath(ctx context.Context, title, suggested string) (string, bool, error) {
	res := make(chan pickResult, 1)
	fyne.Do(func() {
		newSavePicker(p.parent, suggested, func(r pickResult) { res <- r }).show(title)
	})
	return await(ctx, res)
}

// savePicker is a path form with a folder browser.
type savePicker struct {
	parent fyne.Window
	path   *widget.Entry
	done   func(pickResult)
}

func newSavePicker(parent fyne.Window, suggested string, done func(pickResult)) *savePicker {
	if suggested == "" {
		suggested = "splits.json"
		if home, err := os.UserHomeDir(); err == nil {
			suggested = filepath.Join(home, suggested)
		}
	}
	sp := &savePicker{parent: parent, path: widget.NewEntry(), done: done}
	sp.path.SetText(suggested)
	return sp
}

func (sp *savePicker) show(title string) {
	browse := widget.NewButton(i18n.T("Browse..."), sp.browse)
	d := dialog.NewForm(title, i18n.T("Save"), i18n.T("Cancel"), []*widget.FormItem{
		widget.NewFormItem(i18n.T("File"), container.NewBorder(nil, nil, nil, browse, sp.path)),
	}, sp.submit, sp.parent)
	d.Resize(fyne.NewSize(480, 180))
	d.Show()
}

func (sp *savePicker) browse() {
	fd := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		sp.path.SetText(filepath.Join(dir.Path(), filepath.Base(sp.path.Text)))
	}, sp.parent)
	startIn(fd, filepath.Dir(sp.path.Text))
	fd.Show()
}

func (sp *savePicker) submit(ok bool) {
	target, valid := resolveSavePath(sp.path.Text)
	if !ok || !valid {
		sp.done(pickResult{})
		return
	}
	if _, err := os.Stat(target); err == nil {
		msg := fmt.Sprintf(i18n.T("%s already exists. Replace it?"), filepath.Base(target))
		dialog.ShowConfirm(i18n.T("Replace file?"), msg, func(yes bool) {
			sp.done(pickResult{path: target, ok: yes})
		}, sp.parent)
		return
	}
	sp.done(pickResult{path: target, ok: true})
}

// resolveSavePath cleans the typed path and adds the .json extension when none is given.
func resolveSavePath(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasSuffix(text, string(filepath.Separator)) {
		return "", false
	}
	if filepath.Ext(text) == "" {
		text += ".json"
	}
	return filepath.Clean(text), true
}

func (p *Prompter) OpenPath(ctx context.Context, _ string, extensions []string) (string, bool, error) {
	res := make(chan pickResult, 1)
	fyne.Do(func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				res <- pickResult{err: err}
				return
			}
			path := r.URI().Path()
			err = r.Close()
			res <- pickResult{path: path, ok: err == nil, err: err}
		}, p.parent)
		if len(extensions) > 0 {
			d.SetFilter(storage.NewExtensionFileFilter(extensions))
		}
		d.Show()
	})
	return await(ctx, res)
}

func startIn(d *dialog.FileDialog, dir string) {
	loc, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return
	}
	d.SetLocation(loc)
}

func await(ctx context.Context, res <-chan pickResult) (string, bool, error) {
	select {
	case r := <-res:
		return r.path, r.ok, r.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
