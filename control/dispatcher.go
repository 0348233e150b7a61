package control

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"Splitter/hotkey"
	"Splitter/i18n"
	"Splitter/layout"
	"Splitter/settings"
	"Splitter/splits"
	"Splitter/timer"
	"Splitter/workflow"
)

// errEditorOpen is returned when a load would replace the run under an open editor.
var errEditorOpen = errors.New("close the splits editor first")

// View is the UI as seen from the dispatcher. Every method is called on the
// dispatcher goroutine and must hand its work to the UI thread itself.
type View interface {
	// Refresh redraws the live timer.
	Refresh(snap timer.Snapshot, l layout.Layout)
	// ShowEditor opens the splits editor window, or updates it if already open.
	ShowEditor(v splits.View)
	// ShowSettings opens the settings window, or updates it if already open.
	ShowSettings(rows []hotkey.Row)
	ShowError(title string, err error)
	// CloseEditor closes the splits editor window without posting a discard.
	CloseEditor()
	// Quit closes every window and stops the UI.
	Quit()
}

// Options are the collaborators a Dispatcher is built from.
type Options struct {
	Timer    *timer.SharedTimer
	Hotkeys  *hotkey.System
	Store    *settings.Store
	Settings settings.Settings
	Layout   layout.Layout
}

// Dispatcher serializes every UI event onto one goroutine.
type Dispatcher struct {
	shared  *timer.SharedTimer
	hotkeys *hotkey.System
	gate    *suspender
	editors *splits.Manager
	staging *hotkey.Staging

	store  *settings.Store
	prefs  settings.Settings
	layout layout.Layout

	view     View
	prompter workflow.Prompter

	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	spawn  func(func())

	pendingMu sync.Mutex
	pending   map[*workflow.Token]struct{}

	quitChain *workflow.Chain
	quit      bool
}

// New creates a dispatcher. SetView and SetPrompter must be called before Run.
func New(opts Options) *Dispatcher {
	gate := &suspender{sys: opts.Hotkeys}
	d := &Dispatcher{
		shared:  opts.Timer,
		hotkeys: opts.Hotkeys,
		gate:    gate,
		editors: splits.NewManager(opts.Timer, gate),
		store:   opts.Store,
		prefs:   opts.Settings,
		layout:  opts.Layout,
		// Ticks arrive at 60Hz; leave room for bursts of input on top of them.
		events:  make(chan Event, 256),
		spawn:   func(f func()) { go f() },
		pending: make(map[*workflow.Token]struct{}),
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	return d
}

func (d *Dispatcher) SetView(v View) {
	d.view = v
}

func (d *Dispatcher) SetPrompter(p workflow.Prompter) {
	d.prompter = p
}

// Post queues ev without blocking the caller for long. If the queue stays full
// for a short while the event is dropped and logged.
func (d *Dispatcher) Post(ev Event) {
	select {
	case d.events <- ev:
	case <-time.After(150 * time.Millisecond):
		log.Printf("Post timeout: dropping %T", ev)
	}
}

// deliver queues ev, waiting as long as the dispatcher is alive.
func (d *Dispatcher) deliver(ev Event) {
	select {
	case d.events <- ev:
	case <-d.ctx.Done():
	}
}

// Run handles events until ctx is done or Shutdown is called.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.ctx.Done():
			return
		case ev := <-d.events:
			d.Dispatch(ev)
		}
	}
}

// Shutdown stops Run and aborts every chain still waiting on the user.
func (d *Dispatcher) Shutdown() {
	d.cancel()

	d.pendingMu.Lock()
	defer d.pendingMu.Unlock()
	for tok := range d.pending {
		tok.Abort()
	}
	clear(d.pending)
}

// Dispatch handles a single event. Only the goroutine running Run may call it.
func (d *Dispatcher) Dispatch(ev Event) {
	switch ev := ev.(type) {
	case TimerTick:
		d.view.Refresh(d.shared.Snapshot(), d.layout)
	case WindowResized:
		d.layout.Resize(ev.Width, ev.Height)
	case CloseRequested:
		d.closeRequested(ev.Window)
	case WindowClosed:
		d.windowClosed(ev)
	case KeyPressed:
		d.keyPressed(ev)
	case OpenSettings:
		d.openSettings()
	case OpenEditSplits:
		d.openEditSplits()
	case HotkeyFocusChanged:
		if d.staging != nil {
			d.staging.Focus(ev.Slot, ev.Focused)
			d.showSettings()
		}
	case ClearHotkey:
		if d.staging != nil {
			d.staging.Clear(ev.Slot)
			d.showSettings()
		}
	case SaveHotkeys:
		d.saveHotkeys()
	case DiscardHotkeys:
		if d.staging != nil {
			d.staging.Discard(d.hotkeys)
			d.showSettings()
		}
	case TrySaveSplits:
		d.startChain(workflow.SaveChain(d.prompter, d.suggestedSplitsPath(), d.saveSplits))
	case SaveSplits:
		d.report("Failed to save splits", d.saveSplits(ev.Path))
	case TryLoadSplits:
		d.tryLoadSplits()
	case LoadSplits:
		d.report("Failed to load splits", d.loadSplits(ev.Path))
	case TryLoadLayout:
		d.tryLoadLayout()
	case LoadLayout:
		d.report("Failed to load layout", d.loadLayout(ev.Path))
	case EditorEvent:
		sess := d.editors.Session()
		if sess == nil {
			log.Printf("Dropping %T: the splits editor is closed", ev.Edit)
			return
		}
		sess.Apply(ev.Edit)
		d.view.ShowEditor(sess.View())
	case ChainFinished:
		d.chainFinished(ev)
	case ErrorOccurred:
		d.view.ShowError(ev.Title, ev.Err)
	case splitsSaved:
		d.prefs.SplitsPath = ev.Path
	default:
		log.Printf("Unhandled event %T", ev)
	}
}

func (d *Dispatcher) report(title string, err error) {
	if err == nil {
		return
	}
	log.Printf("%s: %v", title, err)
	d.view.ShowError(i18n.T(title), err)
}

func (d *Dispatcher) closeRequested(w WindowKind) {
	if w != MainWindow {
		log.Printf("Close request for the %s window ignored", w)
		return
	}
	if d.quitChain != nil || d.quit {
		return
	}
	// Editor changes are committed first so the unsaved prompt covers them.
	if d.editors.IsOpen() {
		d.report("Failed to update splits", d.editors.Close(true))
		d.view.CloseEditor()
	}
	d.quitChain = workflow.QuitChain(d.shared, d.prompter, d.suggestedSplitsPath(), d.saveFromChain, d.quitApp)
	d.startChain(d.quitChain)
}

func (d *Dispatcher) windowClosed(ev WindowClosed) {
	switch ev.Window {
	case MainWindow:
		// The window is already gone; nothing can be asked any more.
		if !d.quit {
			_ = d.quitApp()
		}
	case SettingsWindow:
		if d.staging == nil {
			return
		}
		d.staging = nil
		d.report("Failed to re-enable hotkeys", d.gate.Activate())
	case EditSplitsWindow:
		if !d.editors.IsOpen() {
			return
		}
		d.report("Failed to update splits", d.editors.Close(ev.Commit))
	}
}

func (d *Dispatcher) keyPressed(ev KeyPressed) {
	switch ev.Window {
	case MainWindow:
		d.hotkeys.Press(ev.Hotkey)
	case SettingsWindow:
		if d.staging != nil && d.staging.KeyPressed(ev.Hotkey) {
			d.showSettings()
		}
	}
}

func (d *Dispatcher) openSettings() {
	if d.staging == nil {
		if err := d.gate.Deactivate(); err != nil {
			log.Printf("Failed to disable hotkeys: %v", err)
		}
		d.staging = hotkey.NewStaging(d.hotkeys)
	}
	d.showSettings()
}

func (d *Dispatcher) showSettings() {
	d.view.ShowSettings(d.staging.Rows())
}

func (d *Dispatcher) saveHotkeys() {
	if d.staging == nil {
		return
	}
	if err := d.staging.Commit(d.hotkeys); err != nil {
		d.report("Failed to update hotkeys", err)
		return
	}
	d.prefs.SetHotkeyConfig(d.hotkeys.Config())
}

func (d *Dispatcher) openEditSplits() {
	sess := d.editors.Session()
	if sess == nil {
		var err error
		if sess, err = d.editors.Open(); err != nil {
			log.Printf("Failed to open the splits editor: %v", err)
			return
		}
	}
	d.view.ShowEditor(sess.View())
}

func (d *Dispatcher) tryLoadSplits() {
	if d.shared.IsMidRun() {
		return
	}
	if d.editors.IsOpen() {
		log.Println("Ignoring load request while the splits editor is open")
		return
	}
	d.startChain(workflow.LoadChain(d.shared, d.prompter, d.suggestedSplitsPath(), d.saveFromChain, d.loadSplits))
}

func (d *Dispatcher) tryLoadLayout() {
	var path string
	chain := workflow.NewChain("load layout",
		workflow.PickPath(d.prompter, i18n.T("Load Layout..."), []string{".json", ".yaml", ".yml"}, &path),
	).Finally(func() error { return d.loadLayout(path) })
	d.startChain(chain)
}

// suggestedSplitsPath snapshots the last used path for chains running off the dispatcher.
func (d *Dispatcher) suggestedSplitsPath() func() string {
	path := d.prefs.SplitsPath
	return func() string { return path }
}

func (d *Dispatcher) saveSplits(path string) error {
	if err := d.shared.SaveRunFile(path); err != nil {
		return err
	}
	d.prefs.SplitsPath = path
	return nil
}

// saveFromChain runs on a chain goroutine and reports the path back through the queue.
func (d *Dispatcher) saveFromChain(path string) error {
	if err := d.shared.SaveRunFile(path); err != nil {
		return err
	}
	d.deliver(splitsSaved{Path: path})
	return nil
}

func (d *Dispatcher) loadSplits(path string) error {
	if d.editors.IsOpen() {
		return errEditorOpen
	}
	if err := d.shared.LoadRunFile(path); err != nil {
		return err
	}
	d.prefs.SplitsPath = path
	return nil
}

func (d *Dispatcher) loadLayout(path string) error {
	l, err := layout.Load(path)
	if err != nil {
		return err
	}
	d.layout = l
	d.prefs.LayoutPath = path
	return nil
}

// quitApp persists the settings and closes the UI. An editor still open here,
// after the main window vanished without a close request, is discarded.
func (d *Dispatcher) quitApp() error {
	d.quit = true
	if d.editors.IsOpen() {
		log.Println("Discarding the open splits editor on exit")
		if err := d.editors.Close(false); err != nil {
			log.Printf("Failed to close the splits editor: %v", err)
		}
	}
	if d.store != nil {
		if err := d.store.Save(d.prefs); err != nil {
			log.Printf("Failed to save settings: %v", err)
		}
	}
	d.view.Quit()
	return nil
}

func (d *Dispatcher) startChain(c *workflow.Chain) {
	if d.prompter == nil {
		log.Printf("No prompter attached, dropping %s", c.Name())
		return
	}
	tok := workflow.NewToken()
	d.pendingMu.Lock()
	d.pending[tok] = struct{}{}
	d.pendingMu.Unlock()

	d.spawn(func() {
		err := c.Run(d.ctx, tok)
		d.deliver(ChainFinished{Chain: c, Token: tok, Err: err})
	})
}

// chainFinished commits a chain whose gates all passed. The token is sealed
// here, on the dispatcher, right before the terminal action.
func (d *Dispatcher) chainFinished(ev ChainFinished) {
	d.pendingMu.Lock()
	delete(d.pending, ev.Token)
	d.pendingMu.Unlock()

	err := ev.Err
	if err == nil {
		err = ev.Chain.Commit(ev.Token)
	}
	if ev.Chain == d.quitChain {
		d.quitChain = nil
	}

	switch {
	case err == nil:
	case errors.Is(err, workflow.ErrCanceled):
		log.Printf("%s canceled", ev.Chain.Name())
	default:
		d.report("Error", err)
	}
}

// suspender counts the windows that need hotkeys switched off, so the
// settings and editor windows can be open at the same time.
type suspender struct {
	sys   splits.HotkeySwitch
	depth int
}

func (s *suspender) Deactivate() error {
	s.depth++
	if s.depth == 1 {
		return s.sys.Deactivate()
	}
	return nil
}

func (s *suspender) Activate() error {
	if s.depth == 0 {
		return nil
	}
	s.depth--
	if s.depth == 0 {
		return s.sys.Activate()
	}
	return nil
}
