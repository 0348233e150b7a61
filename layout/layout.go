// Package layout describes what the main window shows and how large it is.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout is a layout file. Fields missing from the file keep their defaults.
type Layout struct {
	ShowTitle     bool    `json:"show_title" yaml:"show_title"`
	ShowAttempts  bool    `json:"show_attempts" yaml:"show_attempts"`
	ShowSumOfBest bool    `json:"show_sum_of_best" yaml:"show_sum_of_best"`
	VisibleSplits int     `json:"visible_splits" yaml:"visible_splits"`
	TimerTextSize float32 `json:"timer_text_size" yaml:"timer_text_size"`
	Width         float32 `json:"width" yaml:"width"`
	Height        float32 `json:"height" yaml:"height"`
}

var ErrInvalidLayout = errors.New("invalid layout")

func Default() Layout {
	return Layout{
		ShowTitle:     true,
		ShowAttempts:  true,
		ShowSumOfBest: true,
		VisibleSplits: 10,
		TimerTextSize: 48,
		Width:         320,
		Height:        480,
	}
}

func (l Layout) Validate() error {
	switch {
	case l.VisibleSplits < 0:
		return fmt.Errorf("%w: visible_splits must not be negative", ErrInvalidLayout)
	case l.TimerTextSize <= 0:
		return fmt.Errorf("%w: timer_text_size must be positive", ErrInvalidLayout)
	case l.Width < 0 || l.Height < 0:
		return fmt.Errorf("%w: window size must not be negative", ErrInvalidLayout)
	}
	return nil
}

// Resize records a new window size.
func (l *Layout) Resize(width, height float32) {
	l.Width, l.Height = width, height
}

// Load reads a layout file. .yaml and .yml files are read as YAML; anything
// else is read as JSON, falling back to YAML.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	l, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Decode parses data. ext selects the format as in Load.
func Decode(data []byte, ext string) (Layout, error) {
	l := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &l); err != nil {
			return Layout{}, err
		}
	default:
		if jsonErr := json.Unmarshal(data, &l); jsonErr != nil {
			l = Default()
			if yamlErr := yaml.Unmarshal(data, &l); yamlErr != nil {
				return Layout{}, jsonErr
			}
		}
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
