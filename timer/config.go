package timer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ContentReader reads whole files, so embedded assets and tests can supply runs.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

type osReader struct{}

func (osReader) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// runFile is the on-disk JSON shape of a Run. Times are stored as formatted strings.
type runFile struct {
	Game     string        `json:"game"`
	Category string        `json:"category"`
	Attempts uint32        `json:"attempts"`
	Offset   string        `json:"offset"`
	Segments []segmentFile `json:"segments"`
}

type segmentFile struct {
	Name        string `json:"name"`
	SplitTime   string `json:"split_time,omitempty"`
	BestSegment string `json:"best_segment,omitempty"`
}

// LoadRunFile reads a run from a JSON splits file on disk.
func LoadRunFile(path string) (*Run, error) {
	return LoadRun(osReader{}, path)
}

// LoadRun reads a run through reader. The returned run is unmodified.
func LoadRun(reader ContentReader, name string) (*Run, error) {
	data, err := reader.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read splits %s: %w", name, err)
	}
	return DecodeRun(data)
}

// DecodeRun parses the JSON splits format.
func DecodeRun(data []byte) (*Run, error) {
	var f runFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse splits: %w", err)
	}

	run := &Run{GameName: f.Game, CategoryName: f.Category, AttemptCount: f.Attempts}
	if f.Offset != "" {
		off, err := ParseOffset(f.Offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse splits offset: %w", err)
		}
		run.Offset = off
	}
	for i, s := range f.Segments {
		split, err := ParseSpan(s.SplitTime)
		if err != nil {
			return nil, fmt.Errorf("segment %d split time: %w", i, err)
		}
		best, err := ParseSpan(s.BestSegment)
		if err != nil {
			return nil, fmt.Errorf("segment %d best segment: %w", i, err)
		}
		run.Segments = append(run.Segments, Segment{Name: s.Name, SplitTime: split, BestSegmentTime: best})
	}
	if err := run.Validate(); err != nil {
		return nil, fmt.Errorf("failed to parse splits: %w", err)
	}
	return run, nil
}

// EncodeRun serializes run in the JSON splits format.
func EncodeRun(run *Run) ([]byte, error) {
	f := runFile{
		Game:     run.GameName,
		Category: run.CategoryName,
		Attempts: run.AttemptCount,
		Offset:   FormatTime(run.Offset),
		Segments: make([]segmentFile, len(run.Segments)),
	}
	for i, s := range run.Segments {
		f.Segments[i] = segmentFile{
			Name:        s.Name,
			SplitTime:   FormatSpan(s.SplitTime),
			BestSegment: FormatSpan(s.BestSegmentTime),
		}
	}
	return json.MarshalIndent(f, "", "  ")
}

// SaveRunFile writes the canonical run to path. The model is marked unmodified only
// if the file was written and nothing changed the run in the meantime. An existing
// file is only replaced once the new content is fully on disk.
func (s *SharedTimer) SaveRunFile(path string) error {
	var (
		data []byte
		rev  uint64
		err  error
	)
	s.Read(func(t *Timer) {
		rev = t.Revision()
		data, err = EncodeRun(t.Run())
	})
	if err != nil {
		return fmt.Errorf("failed to serialize run: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}

	s.Write(func(t *Timer) {
		if t.Revision() == rev {
			t.MarkAsUnmodified()
		}
	})
	log.Printf("Saved splits to %s", path)
	return nil
}

// LoadRunFile replaces the canonical run with the one stored at path. Loading is
// refused while an attempt is in progress.
func (s *SharedTimer) LoadRunFile(path string) error {
	run, err := LoadRunFile(path)
	if err != nil {
		return err
	}
	s.Write(func(t *Timer) {
		if t.IsMidRun() {
			err = ErrMidRun
			return
		}
		err = t.ReplaceRun(run, true)
	})
	return err
}

// writeFileAtomic writes data to a temporary file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
