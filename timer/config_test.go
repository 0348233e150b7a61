package timer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader map[string]string

func (m mapReader) ReadFile(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func TestLoadRunFromReader(t *testing.T) {
	reader := mapReader{"splits.json": `{
		"game": "Celeste",
		"category": "Any%",
		"attempts": 12,
		"offset": "-1.5",
		"segments": [
			{"name": "Prologue", "split_time": "0:30.00", "best_segment": "0:29.50"},
			{"name": "City"}
		]
	}`}

	run, err := LoadRun(reader, "splits.json")
	require.NoError(t, err)
	assert.Equal(t, "Celeste", run.GameName)
	assert.Equal(t, uint32(12), run.AttemptCount)
	assert.Equal(t, -1500*time.Millisecond, run.Offset)
	require.Len(t, run.Segments, 2)
	assert.Equal(t, SpanOf(30*time.Second), run.Segments[0].SplitTime)
	assert.True(t, run.Segments[1].SplitTime.IsEmpty())
	assert.False(t, run.HasBeenModified())

	_, err = LoadRun(reader, "missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeRunRejectsBadInput(t *testing.T) {
	_, err := DecodeRun([]byte(`{"segments": []}`))
	assert.ErrorIs(t, err, ErrEmptyRun)

	_, err = DecodeRun([]byte(`{"segments": [{"name": "x", "split_time": "soon"}]}`))
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = DecodeRun([]byte(`not json`))
	assert.Error(t, err)
}

func TestSharedTimerSaveAndLoad(t *testing.T) {
	tm, _ := newTestTimer(t)
	shared := Share(tm)
	shared.Write(func(t *Timer) { t.Run().MarkAsModified() })
	require.True(t, shared.IsDirty())

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, shared.SaveRunFile(path))
	assert.False(t, shared.IsDirty())

	loaded, err := LoadRunFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(threeSegmentRun()))

	require.NoError(t, shared.LoadRunFile(path))
	assert.False(t, shared.IsDirty())
}

func TestSharedTimerLoadRefusedMidRun(t *testing.T) {
	tm, _ := newTestTimer(t)
	shared := Share(tm)
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, shared.SaveRunFile(path))

	shared.Write(func(t *Timer) { t.Split() })
	assert.ErrorIs(t, shared.LoadRunFile(path), ErrMidRun)
}

func TestSaveRunFileFailureKeepsDirtyFlag(t *testing.T) {
	tm, _ := newTestTimer(t)
	shared := Share(tm)
	shared.Write(func(t *Timer) { t.Run().MarkAsModified() })

	err := shared.SaveRunFile(filepath.Join(t.TempDir(), "missing-dir", "run.json"))
	assert.Error(t, err)
	assert.True(t, shared.IsDirty())
}

func TestSaveRunFileReplacesExistingFile(t *testing.T) {
	tm, _ := newTestTimer(t)
	shared := Share(tm)
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, shared.SaveRunFile(path))

	loaded, err := LoadRunFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(threeSegmentRun()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run.json", entries[0].Name())
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
