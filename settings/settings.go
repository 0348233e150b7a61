// Package settings persists the hotkey bindings and the last used splits and
// layout files. Values can be overridden with SPLITTER_* environment variables,
// e.g. SPLITTER_SPLITS_PATH or SPLITTER_HOTKEYS_SPLIT.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"Splitter/hotkey"
)

const (
	configDir  = "splitter"
	configFile = "settings.json"
)

// Settings is the persisted document.
type Settings struct {
	Hotkeys    map[string]string `mapstructure:"hotkeys"`
	SplitsPath string            `mapstructure:"splits_path"`
	LayoutPath string            `mapstructure:"layout_path"`
}

// HotkeyConfig parses the stored bindings.
func (s Settings) HotkeyConfig() (hotkey.Config, error) {
	return hotkey.ConfigFromMap(s.Hotkeys)
}

// SetHotkeyConfig stores cfg.
func (s *Settings) SetHotkeyConfig(cfg hotkey.Config) {
	s.Hotkeys = cfg.ToMap()
}

// ReadError is returned when an existing settings file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read settings from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DefaultPath returns the settings file in the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDir, configFile), nil
}

// Store reads and writes one settings file.
type Store struct {
	v    *viper.Viper
	path string
}

// Open reads path. A missing file is not an error; defaults are used instead.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("SPLITTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("hotkeys", hotkey.DefaultConfig().ToMap())
	v.SetDefault("splits_path", "")
	v.SetDefault("layout_path", "")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &ReadError{Path: path, Err: err}
		}
		log.Printf("No settings at %s, using defaults", path)
	}
	return &Store{v: v, path: path}, nil
}

// Path is the file the store reads from and writes to.
func (s *Store) Path() string {
	return s.path
}

// Load decodes the current settings.
func (s *Store) Load() (Settings, error) {
	var out Settings
	if err := s.v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out, nil
}

// Save writes st to the settings file, creating its directory if needed.
func (s *Store) Save(st Settings) error {
	s.v.Set("hotkeys", st.Hotkeys)
	s.v.Set("splits_path", st.SplitsPath)
	s.v.Set("layout_path", st.LayoutPath)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	log.Printf("Settings saved to %s", s.path)
	return nil
}
