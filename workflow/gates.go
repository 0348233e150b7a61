package workflow

import (
	"context"
	"fmt"

	"Splitter/i18n"
)

// Choice is the answer to the unsaved-changes prompt.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceSave
	ChoiceDiscard
)

func (c Choice) String() string {
	switch c {
	case ChoiceSave:
		return "save"
	case ChoiceDiscard:
		return "discard"
	}
	return "cancel"
}

// Prompter shows dialogs and file pickers. Every method blocks until the user
// answers or ctx is done. Pickers report ok=false when dismissed.
type Prompter interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	AskSave(ctx context.Context, title, message string) (Choice, error)
	SavePath(ctx context.Context, title, suggested string) (path string, ok bool, err error)
	OpenPath(ctx context.Context, title string, extensions []string) (path string, ok bool, err error)
}

// Model is what the gates need to know about the canonical run.
type Model interface {
	IsMidRun() bool
	IsDirty() bool
}

// SaveFunc writes the canonical run to path.
type SaveFunc func(path string) error

// DestructiveGate asks before throwing away a running attempt. "No" aborts the chain.
func DestructiveGate(m Model, p Prompter) Step {
	return func(ctx context.Context, tok *Token) error {
		if !m.IsMidRun() {
			return nil
		}
		yes, err := p.Confirm(ctx, i18n.T("Timer is running"), i18n.T("The timer is still running. Quit anyway?"))
		if err != nil {
			return err
		}
		if !yes {
			tok.Abort()
		}
		return nil
	}
}

// UnsavedGate offers to save a dirty run. Save asks for a path and writes the
// run, Discard continues without saving and Cancel aborts the chain. A
// dismissed save picker also aborts; a failed save stops the chain with the
// error.
func UnsavedGate(m Model, p Prompter, suggested func() string, save SaveFunc) Step {
	return func(ctx context.Context, tok *Token) error {
		if !m.IsDirty() {
			return nil
		}
		choice, err := p.AskSave(ctx, i18n.T("Unsaved changes"),
			i18n.T("Your splits have been updated but not yet saved. Do you want to save them?"))
		if err != nil {
			return err
		}

		switch choice {
		case ChoiceDiscard:
			return nil
		case ChoiceSave:
		default:
			tok.Abort()
			return nil
		}

		path, ok, err := p.SavePath(ctx, i18n.T("Save Splits..."), suggested())
		if err != nil {
			return err
		}
		if !ok {
			tok.Abort()
			return nil
		}
		if tok.Aborted() {
			return nil
		}
		if err := save(path); err != nil {
			return fmt.Errorf("failed to save splits: %w", err)
		}
		return nil
	}
}

// PickPath asks for a file to open and stores it in dst. Dismissing the picker aborts the chain.
func PickPath(p Prompter, title string, extensions []string, dst *string) Step {
	return func(ctx context.Context, tok *Token) error {
		path, ok, err := p.OpenPath(ctx, title, extensions)
		if err != nil {
			return err
		}
		if !ok {
			tok.Abort()
			return nil
		}
		*dst = path
		return nil
	}
}

// PickSavePath asks where to save and stores the answer in dst. Dismissing the picker aborts the chain.
func PickSavePath(p Prompter, title string, suggested func() string, dst *string) Step {
	return func(ctx context.Context, tok *Token) error {
		path, ok, err := p.SavePath(ctx, title, suggested())
		if err != nil {
			return err
		}
		if !ok {
			tok.Abort()
			return nil
		}
		*dst = path
		return nil
	}
}

// SaveChain asks for a path and saves the run there.
func SaveChain(p Prompter, suggested func() string, save SaveFunc) *Chain {
	var path string
	return NewChain("save splits",
		PickSavePath(p, i18n.T("Save Splits..."), suggested, &path),
	).Finally(func() error { return save(path) })
}

// QuitChain confirms closing the main window: running timer first, then unsaved changes.
func QuitChain(m Model, p Prompter, suggested func() string, save SaveFunc, quit func() error) *Chain {
	return NewChain("quit",
		DestructiveGate(m, p),
		UnsavedGate(m, p, suggested, save),
	).Finally(quit)
}

// LoadChain offers to save a dirty run, asks for the splits file and hands it to load.
func LoadChain(m Model, p Prompter, suggested func() string, save SaveFunc, load func(path string) error) *Chain {
	var path string
	return NewChain("load splits",
		UnsavedGate(m, p, suggested, save),
		PickPath(p, i18n.T("Load Splits..."), []string{".json"}, &path),
	).Finally(func() error { return load(path) })
}
