package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Splitter/hotkey"
)

func TestMissingFileUsesDefaults(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, st.SplitsPath)

	cfg, err := st.HotkeyConfig()
	require.NoError(t, err)
	assert.Equal(t, hotkey.DefaultConfig(), cfg)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store, err := Open(path)
	require.NoError(t, err)

	cfg := hotkey.Config{
		hotkey.Split: {Key: "Space"},
		hotkey.Reset: {Key: "R", Modifiers: hotkey.ModControl | hotkey.ModShift},
	}
	st := Settings{SplitsPath: "/runs/celeste.json", LayoutPath: "/layouts/wide.yaml"}
	st.SetHotkeyConfig(cfg)
	require.NoError(t, store.Save(st))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, st.SplitsPath, got.SplitsPath)
	assert.Equal(t, st.LayoutPath, got.LayoutPath)

	gotCfg, err := got.HotkeyConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, gotCfg)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SPLITTER_LAYOUT_PATH", "/env/layout.json")
	store, err := Open(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/layout.json", st.LayoutPath)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, path, readErr.Path)
}
