// Package main contains the application wiring and the AppManager which
// connects the shared timer, hotkeys, audio, the dispatcher and the UI.
//
// Concurrency model:
//   - The dispatcher goroutine (control.Dispatcher.Run) owns every piece of
//     UI-facing state: the editor session, hotkey staging and settings.
//   - The hotkey listener goroutine applies actions to the shared timer under
//     its write lock, so timer input keeps flowing while dialogs are open.
//   - The tick goroutine only posts TimerTick events; rendering reads a
//     snapshot under the read lock.
//   - Workflow chains (quit, load, save) run on their own goroutines and
//     report back to the dispatcher through its queue.
package main

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"Splitter/audio"
	"Splitter/control"
	"Splitter/hotkey"
	"Splitter/layout"
	"Splitter/settings"
	"Splitter/timer"
	"Splitter/ui"
)

const tickInterval = time.Second / 60

// AppManager is the main application struct, holding all state.
type AppManager struct {
	fyneApp    fyne.App
	shared     *timer.SharedTimer
	hotkeys    *hotkey.System
	player     *audio.Player
	dispatcher *control.Dispatcher
	ui         *ui.UI
	layout     layout.Layout

	cancel context.CancelFunc
}

// NewAppManager loads settings, splits and layout and builds the UI.
func NewAppManager(opts *options) (*AppManager, error) {
	store, err := settings.Open(opts.configPath)
	if err != nil {
		return nil, err
	}
	prefs, err := store.Load()
	if err != nil {
		return nil, err
	}

	cfg, err := prefs.HotkeyConfig()
	if err != nil {
		log.Printf("Invalid hotkeys in settings, using defaults: %v", err)
		cfg = hotkey.DefaultConfig()
		prefs.SetHotkeyConfig(cfg)
	}

	splitsPath := firstNonEmpty(opts.splitsPath, prefs.SplitsPath)
	run := timer.NewRun()
	if splitsPath != "" {
		if loaded, err := timer.LoadRunFile(splitsPath); err != nil {
			log.Printf("Failed to load splits from %s: %v", splitsPath, err)
		} else {
			run = loaded
			prefs.SplitsPath = splitsPath
			log.Printf("Loaded splits from %s", splitsPath)
		}
	}

	t, err := timer.NewTimer(run)
	if err != nil {
		return nil, err
	}
	shared := timer.Share(t)

	sys, err := hotkey.NewSystem(shared, cfg)
	if err != nil {
		log.Printf("Hotkey conflict in settings, using defaults: %v", err)
		cfg = hotkey.DefaultConfig()
		prefs.SetHotkeyConfig(cfg)
		if sys, err = hotkey.NewSystem(shared, cfg); err != nil {
			return nil, err
		}
	}

	player := audio.NewPlayer(!opts.noAudio)
	sys.OnAction(player.OnAction)

	l := layout.Default()
	if layoutPath := firstNonEmpty(opts.layoutPath, prefs.LayoutPath); layoutPath != "" {
		if loaded, err := layout.Load(layoutPath); err != nil {
			log.Printf("Failed to load layout from %s: %v", layoutPath, err)
		} else {
			l = loaded
			prefs.LayoutPath = layoutPath
		}
	}

	d := control.New(control.Options{
		Timer:    shared,
		Hotkeys:  sys,
		Store:    store,
		Settings: prefs,
		Layout:   l,
	})

	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewCustomTheme())
	u := ui.New(fyneApp, d)
	d.SetView(u)
	d.SetPrompter(ui.NewPrompter(u.Window()))

	return &AppManager{
		fyneApp:    fyneApp,
		shared:     shared,
		hotkeys:    sys,
		player:     player,
		dispatcher: d,
		ui:         u,
		layout:     l,
	}, nil
}

// Run starts the background goroutines and blocks until the UI quits.
func (a *AppManager) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.hotkeys.Run(ctx)
	go a.dispatcher.Run(ctx)
	go a.tick(ctx)

	a.ui.ShowAndRun(a.layout)
	a.Shutdown()
}

func (a *AppManager) tick(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.dispatcher.Post(control.TimerTick{})
		}
	}
}

// Shutdown stops the background goroutines and aborts any open prompt chains.
func (a *AppManager) Shutdown() {
	a.dispatcher.Shutdown()
	if a.cancel != nil {
		a.cancel()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
