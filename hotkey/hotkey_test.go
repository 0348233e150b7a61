package hotkey

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Splitter/timer"
)

func newShared(t *testing.T) *timer.SharedTimer {
	t.Helper()
	tm, err := timer.NewTimer(timer.NewRun())
	require.NoError(t, err)
	return timer.Share(tm)
}

func newSystem(t *testing.T, cfg Config) *System {
	t.Helper()
	sys, err := NewSystem(newShared(t), cfg)
	require.NoError(t, err)
	return sys
}

func TestHotkeyStringParse(t *testing.T) {
	h := Hotkey{Key: "Space", Modifiers: ModShift | ModControl}
	assert.Equal(t, "Ctrl+Shift+Space", h.String())

	parsed, err := ParseHotkey("ctrl+shift+Space")
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	empty, err := ParseHotkey("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = ParseHotkey("Hyper+A")
	assert.Error(t, err)
	_, err = ParseHotkey("Ctrl+")
	assert.Error(t, err)
}

func TestConfigMapConversion(t *testing.T) {
	cfg := DefaultConfig()
	m := cfg.ToMap()
	assert.Equal(t, "1", m["split"])
	assert.Equal(t, "", m["toggle_timing_method"])

	back, err := ConfigFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	_, err = ConfigFromMap(map[string]string{"pause": "Meta+P"})
	assert.Error(t, err)
}

func TestNewSystemRejectsDuplicates(t *testing.T) {
	cfg := Config{Split: {Key: "A"}, Pause: {Key: "A"}}
	_, err := NewSystem(newShared(t), cfg)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, Pause, conflict.Action)
	assert.Equal(t, Split, conflict.BoundTo)
	assert.Contains(t, conflict.Error(), "Start/Split")
}

func TestSetConfigRejectsSwapInOneStep(t *testing.T) {
	sys := newSystem(t, Config{Split: {Key: "A"}, Pause: {Key: "B"}})

	swapped := Config{Split: {Key: "B"}, Pause: {Key: "A"}}
	var conflict *ConflictError
	require.ErrorAs(t, sys.SetConfig(swapped), &conflict)
	assert.Equal(t, Config{Split: {Key: "A"}, Pause: {Key: "B"}}, sys.Config())
}

func TestStagingCommitSwapsBindings(t *testing.T) {
	sys := newSystem(t, Config{Split: {Key: "A"}, Pause: {Key: "B"}})

	staging := NewStaging(sys)
	staging.Focus(int(Split), true)
	require.True(t, staging.KeyPressed(Hotkey{Key: "B"}))
	staging.Focus(int(Split), false)
	staging.Focus(int(Pause), true)
	require.True(t, staging.KeyPressed(Hotkey{Key: "A"}))

	require.NoError(t, staging.Commit(sys))
	assert.Equal(t, Config{Split: {Key: "B"}, Pause: {Key: "A"}}, sys.Config())
}

func TestStagingCommitDuplicateLeavesLiveCleared(t *testing.T) {
	sys := newSystem(t, Config{Split: {Key: "A"}, Pause: {Key: "B"}})

	staging := NewStaging(sys)
	staging.Focus(int(Pause), true)
	staging.KeyPressed(Hotkey{Key: "A"})

	err := staging.Commit(sys)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, Config{}, sys.Config())
}

func TestStagingDiscardLeavesLiveUntouched(t *testing.T) {
	live := DefaultConfig()
	sys := newSystem(t, live)

	staging := NewStaging(sys)
	staging.Clear(int(Split))
	staging.Clear(99)
	assert.True(t, staging.Config()[Split].IsZero())

	staging.Discard(sys)
	assert.Equal(t, live, staging.Config())
	assert.Equal(t, live, sys.Config())
}

func TestStagingFocus(t *testing.T) {
	staging := NewStaging(newSystem(t, Config{}))
	assert.False(t, staging.KeyPressed(Hotkey{Key: "X"}))

	staging.Focus(2, true)
	staging.Focus(3, true)
	staging.Focus(2, false) // stale blur from the previous box
	slot, ok := staging.Focused()
	require.True(t, ok)
	assert.Equal(t, Skip, slot)

	rows := staging.Rows()
	require.Len(t, rows, int(ActionCount))
	assert.True(t, rows[3].Focused)
	assert.Equal(t, "Skip", rows[3].Label)

	staging.Focus(3, false)
	_, ok = staging.Focused()
	assert.False(t, ok)
}

type failingConfigurer struct{ calls []Config }

func (f *failingConfigurer) Config() Config { return Config{} }
func (f *failingConfigurer) SetConfig(c Config) error {
	f.calls = append(f.calls, c)
	if len(f.calls) == 2 {
		return errors.New("rejected")
	}
	return nil
}

func TestStagingCommitClearsFirst(t *testing.T) {
	dst := &failingConfigurer{}
	staging := &Staging{slots: DefaultConfig(), focused: -1}

	assert.Error(t, staging.Commit(dst))
	require.Len(t, dst.calls, 2)
	assert.Equal(t, Config{}, dst.calls[0])
	assert.Equal(t, DefaultConfig(), dst.calls[1])
}

func TestHandleIgnoredWhileInactive(t *testing.T) {
	shared := newShared(t)
	sys, err := NewSystem(shared, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, sys.Deactivate())
	sys.handle(Hotkey{Key: "1"})
	assert.False(t, shared.IsMidRun())

	require.NoError(t, sys.Activate())
	sys.handle(Hotkey{Key: "Z"})
	assert.False(t, shared.IsMidRun())

	sys.handle(Hotkey{Key: "1"})
	assert.True(t, shared.IsMidRun())
}

func TestListenerAppliesQueuedPresses(t *testing.T) {
	shared := newShared(t)
	sys, err := NewSystem(shared, DefaultConfig())
	require.NoError(t, err)

	fired := make(chan Action, 4)
	sys.OnAction(func(a Action) { fired <- a })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sys.Run(ctx)

	sys.Press(Hotkey{Key: "5"})

	select {
	case a := <-fired:
		assert.Equal(t, Pause, a)
	case <-time.After(2 * time.Second):
		t.Fatal("pause action never fired")
	}
	assert.True(t, shared.IsMidRun())
}

func TestActivateAfterListenerStops(t *testing.T) {
	sys := newSystem(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sys.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.ErrorIs(t, sys.Activate(), ErrStopped)
	assert.False(t, sys.Active())
}
