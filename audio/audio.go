// Package audio plays short synthesized cues when hotkey actions fire.
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"Splitter/hotkey"
)

// Cue is one of the sounds the player can make.
type Cue int

const (
	CueSplit Cue = iota
	CueReset
	CuePause
)

const sampleRate beep.SampleRate = 44100

type tone struct {
	freq     float64
	duration time.Duration
}

var tones = map[Cue]tone{
	CueSplit: {freq: 880, duration: 80 * time.Millisecond},
	CueReset: {freq: 330, duration: 220 * time.Millisecond},
	CuePause: {freq: 587.33, duration: 120 * time.Millisecond},
}

// CueFor picks the sound for a hotkey action. Comparison and timing method
// switches are silent.
func CueFor(a hotkey.Action) (Cue, bool) {
	switch a {
	case hotkey.Split, hotkey.Skip:
		return CueSplit, true
	case hotkey.Reset, hotkey.Undo:
		return CueReset, true
	case hotkey.Pause, hotkey.UndoAllPauses:
		return CuePause, true
	}
	return 0, false
}

// Player owns the speaker. A disabled player, or one whose speaker failed to
// initialize, ignores Play.
type Player struct {
	buffers     map[Cue]*beep.Buffer
	speakerLock sync.Mutex
	enabled     bool
}

// NewPlayer initializes the speaker and renders every cue.
func NewPlayer(enabled bool) *Player {
	p := &Player{buffers: make(map[Cue]*beep.Buffer)}
	if !enabled {
		log.Println("Audio disabled")
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v", err)
		return p
	}

	for cue, t := range tones {
		b, err := render(t)
		if err != nil {
			log.Printf("Failed to render cue %d: %v", cue, err)
			continue
		}
		p.buffers[cue] = b
	}
	p.enabled = true
	return p
}

// render synthesizes t into a buffer at a reduced volume.
func render(t tone) (*beep.Buffer, error) {
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return nil, err
	}
	quiet := &effects.Volume{
		Streamer: beep.Take(sampleRate.N(t.duration), sine),
		Base:     2,
		Volume:   -2,
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(quiet)
	return buffer, nil
}

// Play starts cue without waiting for it to finish.
func (p *Player) Play(cue Cue) {
	if !p.enabled {
		return
	}
	b, ok := p.buffers[cue]
	if !ok {
		log.Printf("Sound buffer not found for cue %d", cue)
		return
	}

	p.speakerLock.Lock()
	defer p.speakerLock.Unlock()

	speaker.Play(b.Streamer(0, b.Len()))
}

// OnAction plays the cue for a, if it has one.
func (p *Player) OnAction(a hotkey.Action) {
	if cue, ok := CueFor(a); ok {
		p.Play(cue)
	}
}
