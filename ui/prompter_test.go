package ui

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSavePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "", ok: false},
		{in: "   ", ok: false},
		{in: filepath.Join("runs", "celeste") + string(filepath.Separator), ok: false},
		{in: filepath.Join("runs", "celeste"), want: filepath.Join("runs", "celeste.json"), ok: true},
		{in: " " + filepath.Join("runs", "celeste.json") + " ", want: filepath.Join("runs", "celeste.json"), ok: true},
		{in: filepath.Join("runs", ".", "any.lss"), want: filepath.Join("runs", "any.lss"), ok: true},
	}
	for _, c := range cases {
		got, ok := resolveSavePath(c.in)
		assert.Equal(t, c.ok, ok, "%q", c.in)
		assert.Equal(t, c.want, got, "%q", c.in)
	}
}

func TestSavePickerLeavesExistingFileAlone(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := a.NewWindow("main")

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game":"old"}`), 0o644))

	var results []pickResult
	sp := newSavePicker(w, path, func(r pickResult) { results = append(results, r) })
	sp.show("Save Splits")
	sp.submit(true)

	// The overwrite confirmation is pending, nothing was answered or written.
	assert.Empty(t, results)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"game":"old"}`, string(data))
}

func TestSavePickerNewFile(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := a.NewWindow("main")

	dir := t.TempDir()
	var results []pickResult
	sp := newSavePicker(w, filepath.Join(dir, "any"), func(r pickResult) { results = append(results, r) })
	sp.submit(true)

	require.Len(t, results, 1)
	assert.Equal(t, pickResult{path: filepath.Join(dir, "any.json"), ok: true}, results[0])
	_, err := os.Stat(filepath.Join(dir, "any.json"))
	assert.True(t, os.IsNotExist(err))

	sp.submit(false)
	require.Len(t, results, 2)
	assert.False(t, results[1].ok)
}

func TestSavePickerDefaultsToJSONName(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	sp := newSavePicker(a.NewWindow("main"), "", func(pickResult) {})
	assert.Equal(t, "splits.json", filepath.Base(sp.path.Text))
}
