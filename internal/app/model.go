package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/config"
	"github.com/marcus/notepad/internal/keymap"
	"github.com/marcus/notepad/internal/mouse"
	"github.com/marcus/notepad/internal/msg"
	"github.com/marcus/notepad/internal/notes"
	"github.com/marcus/notepad/internal/styles"
)

// FocusPane represents which pane is active.
type FocusPane int

const (
	PaneList FocusPane = iota
	PaneEditor
)

// Options wires a Model to its collaborators.
type Options struct {
	Store     *notes.Store
	Selection *notes.Selection
	Deletion  *notes.DeletionWorkflow
	Keymap    *keymap.Registry
	Config    *config.Config

	// ConfigPath is where settings changes are saved. Empty disables saving.
	ConfigPath string
	// ConfigUpdates delivers reloaded config files (see config.Watch).
	ConfigUpdates <-chan *config.Config

	Logger  *slog.Logger
	Version string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Model is the root Bubble Tea model of the notepad TUI.
type Model struct {
	ctx    context.Context
	logger *slog.Logger
	now    func() time.Time

	store     *notes.Store
	selection *notes.Selection
	deletion  *notes.DeletionWorkflow
	keymap    *keymap.Registry

	cfg           *config.Config
	uiWriter      *config.UIWriter
	configUpdates <-chan *config.Config
	version       string

	// Layout
	width, height int
	listWidth     int
	ready         bool
	showClock     bool
	showFooter    bool

	// List pane
	pane      FocusPane
	cursor    int
	scrollOff int
	anim      *listAnimator
	mouse     *mouse.Handler
	intro     *logoIntro

	// Editor pane
	editor editor

	// Overlays
	confirm      *overlay
	dontAsk      *bool
	settings     *overlay
	settingsVals *settingsValues

	// lastFailure is the most recent persistence error, "" after a success.
	lastFailure *string

	// Clock and toasts
	clock         time.Time
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	unsubscribe []func()
}

// New creates the application model. ctx bounds persistence calls.
func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keymap.NewRegistry()
		keymap.RegisterDefaults(km)
	}

	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)

	var writer *config.UIWriter
	if opts.ConfigPath != "" {
		writer = config.NewUIWriter(opts.ConfigPath)
	}

	m := Model{
		ctx:           ctx,
		logger:        logger,
		now:           now,
		store:         opts.Store,
		selection:     opts.Selection,
		deletion:      opts.Deletion,
		keymap:        km,
		cfg:           cfg,
		uiWriter:      writer,
		configUpdates: opts.ConfigUpdates,
		version:       opts.Version,
		listWidth:     cfg.UI.ListWidth,
		showClock:     cfg.UI.ShowClock,
		showFooter:    cfg.UI.ShowFooter,
		pane:          PaneList,
		anim:          newListAnimator(cfg.UI.Animations, now),
		intro:         newLogoIntro(cfg.UI.Animations, string(styles.Primary), string(styles.Accent)),
		mouse:         mouse.NewHandler(),
		editor:        newEditor(),
		confirm:       newOverlay(),
		dontAsk:       new(bool),
		settings:      newOverlay(),
		settingsVals:  &settingsValues{},
		lastFailure:   new(string),
		clock:         now(),
	}

	m.anim.Sync(m.store.List())
	anim := m.anim
	m.unsubscribe = append(m.unsubscribe, m.store.Subscribe(anim.Observe))
	m.syncEditor()
	return m
}

// Init starts the clock, the logo reveal and the config listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), waitForConfig(m.configUpdates)}
	if !m.intro.Done() {
		cmds = append(cmds, introTick())
	}
	return tea.Batch(cmds...)
}

// Close detaches the model from the store's change signal.
func (m Model) Close() {
	for _, cancel := range m.unsubscribe {
		cancel()
	}
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(text string, duration time.Duration, isError bool) {
	m.statusMsg = text
	m.statusExpiry = m.now().Add(duration)
	m.statusIsError = isError
}

// ClearToast clears any expired toast message.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && m.now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// reportFailure logs err and returns an error toast command. A nil err
// clears the last failure and yields nil.
func (m *Model) reportFailure(what string, err error) tea.Cmd {
	if err == nil {
		*m.lastFailure = ""
		return nil
	}
	*m.lastFailure = what + ": " + err.Error()
	m.logger.Error("notepad: "+what, "err", err)
	return msg.ShowErrorToast(what, err)
}

// activeNote returns the note the selection points at.
func (m *Model) activeNote() (notes.Note, bool) {
	return m.selection.Active(m.store)
}

// cursorNote returns the note under the list cursor.
func (m *Model) cursorNote() (notes.Note, bool) {
	list := m.store.List()
	if m.cursor < 0 || m.cursor >= len(list) {
		return notes.Note{}, false
	}
	return list[m.cursor], true
}

// syncEditor loads the selected note into the editor, or unloads it when
// the selection no longer resolves.
func (m *Model) syncEditor() {
	n, ok := m.activeNote()
	if !ok {
		if m.editor.Loaded() {
			m.editor.Unload()
		}
		if m.pane == PaneEditor {
			m.pane = PaneList
		}
		return
	}
	if m.editor.noteID != n.ID {
		m.editor.Load(n)
		if m.pane == PaneEditor {
			m.editor.Focus(m.editor.field)
		}
	}
}

// clampCursor keeps the cursor on an existing row.
func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	visible := m.listRowsHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scrollOff {
		m.scrollOff = m.cursor
	} else if m.cursor >= m.scrollOff+visible {
		m.scrollOff = m.cursor - visible + 1
	}
	if m.scrollOff < 0 {
		m.scrollOff = 0
	}
}

// moveCursorTo puts the cursor on the row of note id.
func (m *Model) moveCursorTo(id int64) {
	for i, n := range m.store.List() {
		if n.ID == id {
			m.cursor = i
			break
		}
	}
	m.ensureCursorVisible()
}

// openNote selects n and focuses field in the editor.
func (m *Model) openNote(n notes.Note, field editorField) {
	m.selection.Select(n.ID)
	m.moveCursorTo(n.ID)
	m.syncEditor()
	m.pane = PaneEditor
	m.editor.Focus(field)
}

// focusList returns input to the list, saving pending edits.
func (m *Model) focusList() tea.Cmd {
	err := m.editor.Commit(m.ctx, m.store)
	m.pane = PaneList
	m.editor.Blur()
	return m.reportFailure("Save failed", err)
}

// applyConfig adopts UI settings from a reloaded config file.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.cfg = cfg
	m.showClock = cfg.UI.ShowClock
	m.showFooter = cfg.UI.ShowFooter
	m.listWidth = cfg.UI.ListWidth
	m.anim.SetEnabled(cfg.UI.Animations)
	if !cfg.UI.Animations {
		m.intro.Skip()
	}
	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)
	m.layout()
}

// saveUI persists the current UI toggles to the config file. The save
// runs off the event loop but keeps its place in line with earlier ones.
func (m *Model) saveUI() tea.Cmd {
	ui := m.cfg.UI
	ui.ShowClock = m.showClock
	ui.ShowFooter = m.showFooter
	ui.Animations = m.anim.enabled
	ui.ListWidth = m.listWidth
	m.cfg.UI = ui
	if m.uiWriter == nil {
		return nil
	}
	return saveUICmd(m.uiWriter, m.uiWriter.Next(), ui)
}

// activeContext returns the keymap context for the current focus.
func (m *Model) activeContext() string {
	switch {
	case m.confirm.open():
		return keymap.ContextConfirm
	case m.settings.open():
		return keymap.ContextSettings
	case m.pane == PaneEditor && m.editor.Loaded():
		return keymap.ContextEditor
	default:
		return keymap.ContextList
	}
}
