// Package workflow runs confirmation chains: a fixed sequence of gates that
// may prompt the user and cancel the rest of the chain, followed by one
// terminal action.
//
// Gates run on their own goroutine and may block on dialogs. The terminal
// action does not; the dispatcher calls Commit once Run reports success, and
// Commit re-checks the shared token right before the action executes.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCanceled is returned by Run and Commit when a gate aborted the chain.
var ErrCanceled = errors.New("canceled")

// Token is shared by every step of one chain. Once aborted it stays aborted;
// once sealed it can no longer be aborted.
type Token struct {
	mu      sync.Mutex
	aborted bool
	sealed  bool
}

func NewToken() *Token {
	return &Token{}
}

// Abort cancels the chain. It reports false if the terminal action already started.
func (t *Token) Abort() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return false
	}
	t.aborted = true
	return true
}

// Aborted reports whether the chain was canceled.
func (t *Token) Aborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aborted
}

// Seal is the checkpoint before an irreversible action. It reports false if
// the chain was already aborted.
func (t *Token) Seal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.aborted {
		return false
	}
	t.sealed = true
	return true
}

// Step is one link of a chain. A step cancels the chain by aborting tok and
// returning nil; a returned error also stops the chain.
type Step func(ctx context.Context, tok *Token) error

// Chain is an ordered list of steps plus a terminal action.
type Chain struct {
	name  string
	steps []Step
	final func() error
}

func NewChain(name string, steps ...Step) *Chain {
	return &Chain{name: name, steps: steps}
}

// Finally sets the terminal action.
func (c *Chain) Finally(action func() error) *Chain {
	c.final = action
	return c
}

func (c *Chain) Name() string {
	return c.name
}

// Run executes the steps in order, checking tok before each one. It returns
// ErrCanceled if the chain was aborted, or the first step error.
func (c *Chain) Run(ctx context.Context, tok *Token) error {
	for _, step := range c.steps {
		if ctx.Err() != nil {
			tok.Abort()
		}
		if tok.Aborted() {
			return ErrCanceled
		}
		if err := step(ctx, tok); err != nil {
			tok.Abort()
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	if tok.Aborted() {
		return ErrCanceled
	}
	return nil
}

// Commit seals tok and runs the terminal action. Call it on the goroutine
// that owns the state the action touches.
func (c *Chain) Commit(tok *Token) error {
	if !tok.Seal() {
		return ErrCanceled
	}
	if c.final == nil {
		return nil
	}
	if err := c.final(); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}
