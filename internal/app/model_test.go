package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/config"
	"github.com/marcus/notepad/internal/kv"
	"github.com/marcus/notepad/internal/notes"
	"github.com/marcus/notepad/internal/ui"
)

type testEnv struct {
	backend *kv.Memory
	store   *notes.Store
	sel     *notes.Selection
	flow    *notes.DeletionWorkflow
}

// newTestModel builds a sized model over an in-memory backend. The ask
// preference is stored before the workflow loads it.
func newTestModel(t *testing.T, ask bool) (Model, *testEnv) {
	t.Helper()
	ctx := context.Background()
	backend := kv.NewMemory()
	if err := backend.Set(ctx, notes.KeyAsk, notes.EncodeBool(ask)); err != nil {
		t.Fatalf("seed ask: %v", err)
	}
	store, err := notes.Open(ctx, backend)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	sel := notes.NewSelection()
	flow, err := notes.NewDeletionWorkflow(ctx, store, sel, backend)
	if err != nil {
		t.Fatalf("open workflow: %v", err)
	}

	cfg := config.Default()
	cfg.UI.Animations = false
	m := New(ctx, Options{
		Store:     store,
		Selection: sel,
		Deletion:  flow,
		Config:    cfg,
	})
	t.Cleanup(m.Close)

	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, &testEnv{backend: backend, store: store, sel: sel, flow: flow}
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func click(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	m.View()
	return send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func TestNewNote_AppendsWithoutSelecting(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "n")

	list := env.store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(list))
	}
	if list[0].Title != notes.DefaultTitle {
		t.Errorf("title = %q, want %q", list[0].Title, notes.DefaultTitle)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (the new note)", m.cursor)
	}
	if env.sel.Current() != notes.NoSelection {
		t.Errorf("creating a note should not select it, got %d", env.sel.Current())
	}
}

func TestCursorMovesAndClamps(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, "n", "n", "n")

	m = press(t, m, "g")
	if m.cursor != 0 {
		t.Errorf("after g cursor = %d, want 0", m.cursor)
	}
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}
	m = press(t, m, "j", "j", "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestDelete_AskShowsConfirmation(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "d")

	if !m.confirm.open() {
		t.Fatal("expected confirmation dialog")
	}
	if env.store.Len() != 1 {
		t.Fatal("note removed before confirmation")
	}
	if m.activeContext() != "confirm" {
		t.Errorf("context = %q, want confirm", m.activeContext())
	}

	m = press(t, m, "y")
	if env.store.Len() != 0 {
		t.Errorf("expected note deleted, %d left", env.store.Len())
	}
	if m.confirm.open() {
		t.Error("expected dialog closed after confirm")
	}
}

func TestDelete_CancelKeepsNote(t *testing.T) {
	for _, k := range []string{"n", "esc"} {
		m, env := newTestModel(t, true)
		m = press(t, m, "n", "d")
		m = press(t, m, k)

		if env.store.Len() != 1 {
			t.Errorf("%s: note removed on cancel", k)
		}
		if m.confirm.open() {
			t.Errorf("%s: dialog still open", k)
		}
		if env.flow.State() != notes.Idle {
			t.Errorf("%s: workflow state = %v, want idle", k, env.flow.State())
		}
	}
}

func TestDelete_EnterConfirmsFromDialog(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "d")
	m.View()
	m = press(t, m, "enter")

	if env.store.Len() != 0 {
		t.Errorf("enter on the dialog should delete, %d left", env.store.Len())
	}
}

func TestDelete_WithoutAskIsImmediate(t *testing.T) {
	m, env := newTestModel(t, false)
	m = press(t, m, "n", "enter")
	if env.sel.Current() == notes.NoSelection {
		t.Fatal("expected the note to be open")
	}
	m = press(t, m, "esc", "d")

	if m.confirm.open() {
		t.Error("no dialog expected when not asking")
	}
	if env.store.Len() != 0 {
		t.Errorf("expected note deleted, %d left", env.store.Len())
	}
	if env.sel.Current() != notes.NoSelection {
		t.Error("deleting the open note should clear the selection")
	}
	if m.editor.Loaded() {
		t.Error("editor should unload the deleted note")
	}
}

func TestConfirmOptOutPersists(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "d")
	m.View()

	// Tick the "Don't ask again" box, then confirm.
	m.confirm.modal.SetFocus(ui.ActionOptOut)
	m = press(t, m, " ")
	if env.flow.AskBeforeDelete() {
		t.Fatal("expected opt-out to turn asking off")
	}
	raw, err := env.backend.Get(context.Background(), notes.KeyAsk)
	if err != nil {
		t.Fatalf("get ask: %v", err)
	}
	if ask, _ := notes.DecodeBool(raw); ask {
		t.Error("expected persisted ask=false")
	}

	m = press(t, m, "y")
	if env.store.Len() != 0 {
		t.Error("expected pending delete to complete after opt-out")
	}
}

func TestOpenNote_FocusesEditor(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "enter")

	n := env.store.List()[0]
	if env.sel.Current() != n.ID {
		t.Errorf("selection = %d, want %d", env.sel.Current(), n.ID)
	}
	if m.pane != PaneEditor || m.editor.field != fieldBody {
		t.Errorf("expected body focused, pane=%d field=%d", m.pane, m.editor.field)
	}
	if m.activeContext() != "editor" {
		t.Errorf("context = %q, want editor", m.activeContext())
	}
}

func TestEditorTypingPersists(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "enter", "h", "i")

	n := env.store.List()[0]
	if n.Body != "hi" {
		t.Errorf("body = %q, want %q", n.Body, "hi")
	}

	// Keys that are list bindings are text inside the editor.
	m = press(t, m, "q", "d")
	if got := env.store.List()[0].Body; got != "hiqd" {
		t.Errorf("body = %q, want %q", got, "hiqd")
	}
	if env.store.Len() != 1 {
		t.Error("editor keys must not trigger list commands")
	}

	m = press(t, m, "esc")
	if m.pane != PaneList {
		t.Error("esc should return to the list")
	}
	if env.sel.Current() != n.ID {
		t.Error("leaving the editor keeps the note open")
	}
}

func TestRenameFocusesTitle(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "r")
	if m.editor.field != fieldTitle {
		t.Fatalf("field = %d, want title", m.editor.field)
	}
	m = press(t, m, "!")
	if got := env.store.List()[0].Title; got != notes.DefaultTitle+"!" {
		t.Errorf("title = %q, want %q", got, notes.DefaultTitle+"!")
	}

	m = press(t, m, "tab")
	if m.editor.field != fieldBody {
		t.Error("tab should move to the body")
	}
}

func TestCloseNoteClearsSelection(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "n", "enter", "esc", "x")
	if env.sel.Current() != notes.NoSelection {
		t.Errorf("selection = %d after close", env.sel.Current())
	}
	if m.editor.Loaded() {
		t.Error("editor should be empty")
	}
	if env.store.Len() != 1 {
		t.Error("closing must not delete")
	}
}

func TestToggleAskPersists(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "a")
	if env.flow.AskBeforeDelete() {
		t.Fatal("expected ask off")
	}
	raw, err := env.backend.Get(context.Background(), notes.KeyAsk)
	if err != nil {
		t.Fatalf("get ask: %v", err)
	}
	if ask, _ := notes.DecodeBool(raw); ask {
		t.Error("expected persisted ask=false")
	}
	if !strings.Contains(m.View(), "delete: immediate") {
		t.Error("header should show immediate delete mode")
	}

	press(t, m, "a")
	if !env.flow.AskBeforeDelete() {
		t.Error("second toggle should restore asking")
	}
}

func TestSettingsPanel(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "s")
	if !m.settings.open() {
		t.Fatal("expected settings panel")
	}
	if !strings.Contains(m.View(), "Ask before deleting") {
		t.Error("settings view missing ask option")
	}

	m = press(t, m, "a")
	if env.flow.AskBeforeDelete() {
		t.Error("a in settings should turn asking off")
	}
	if m.settingsVals.ask {
		t.Error("checkbox value should follow the preference")
	}

	m = press(t, m, "esc")
	if m.settings.open() {
		t.Error("esc should close settings")
	}
}

func TestToggleFooterAndClock(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, "ctrl+o")
	if m.showFooter {
		t.Error("ctrl+o should hide the footer")
	}
	m = press(t, m, "c")
	if m.showClock {
		t.Error("c should hide the clock")
	}
}

func TestYank(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	m, env := newTestModel(t, true)
	m = press(t, m, "n")
	n := env.store.List()[0]
	if err := env.store.SetBody(context.Background(), n.ID, "some text"); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "y")
	if copied != "some text" {
		t.Errorf("copied %q, want body", copied)
	}
	press(t, m, "Y")
	if copied != notes.DefaultTitle {
		t.Errorf("copied %q, want title", copied)
	}
}

func TestPersistFailureShowsToastAndKeepsNote(t *testing.T) {
	m, env := newTestModel(t, true)
	env.backend.FailWrites = errors.New("disk full")

	next, cmd := m.Update(keyMsg("n"))
	m = next.(Model)
	if env.store.Len() != 1 {
		t.Fatal("in-memory create should survive a persist failure")
	}
	if cmd == nil {
		t.Fatal("expected a toast command")
	}
	m = send(t, m, findToast(cmd()))
	if !m.statusIsError || !strings.Contains(m.statusMsg, "disk full") {
		t.Errorf("status = %q (error=%v)", m.statusMsg, m.statusIsError)
	}
}

// findToast unwraps a batch down to the first message it yields.
func findToast(msg tea.Msg) tea.Msg {
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if got := findToast(c()); got != nil {
				return got
			}
		}
		return nil
	}
	return msg
}

func TestConfigReloadAppliesUI(t *testing.T) {
	m, _ := newTestModel(t, true)
	cfg := config.Default()
	cfg.UI.ShowFooter = false
	cfg.UI.ShowClock = false
	cfg.UI.ListWidth = 40

	m = send(t, m, ConfigReloadedMsg{Config: cfg})
	if m.showFooter || m.showClock {
		t.Error("expected footer and clock hidden")
	}
	if lw, _ := m.paneWidths(); lw != 40 {
		t.Errorf("list width = %d, want 40", lw)
	}
}

func TestToastExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	m, _ := newTestModel(t, true)
	m.now = func() time.Time { return now }

	m.ShowToast("hello", time.Second, false)
	m.ClearToast()
	if m.statusMsg != "hello" {
		t.Fatal("toast cleared too early")
	}
	now = now.Add(2 * time.Second)
	m.ClearToast()
	if m.statusMsg != "" {
		t.Error("toast should have expired")
	}
}

// runCmds executes cmd and every command nested in its batches.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmds(c)...)
	}
	return out
}

func TestSettingsSavesKeepToggleOrder(t *testing.T) {
	m, _ := newTestModel(t, true)
	path := filepath.Join(t.TempDir(), "config.json")
	m.uiWriter = config.NewUIWriter(path)

	next, hide := m.Update(keyMsg("c"))
	m = next.(Model)
	next, show := m.Update(keyMsg("c"))
	m = next.(Model)
	if !m.showClock {
		t.Fatal("second toggle should show the clock")
	}

	// The later save finishes first; the earlier one must not overwrite it.
	for _, msg := range append(runCmds(show), runCmds(hide)...) {
		if saved, ok := msg.(configSavedMsg); ok && saved.Err != nil {
			t.Fatalf("save failed: %v", saved.Err)
		}
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.UI.ShowClock {
		t.Error("config file holds the older toggle")
	}
}

func TestStaleConfigReloadIgnored(t *testing.T) {
	m, _ := newTestModel(t, true)
	m.uiWriter = config.NewUIWriter(filepath.Join(t.TempDir(), "config.json"))

	next, cmd := m.Update(keyMsg("c"))
	m = next.(Model)
	if m.showClock {
		t.Fatal("toggle should hide the clock")
	}

	// A reload arriving while the save is queued is older than the toggle.
	pending := config.Default()
	pending.LoadedAt = time.Now()
	m = send(t, m, ConfigReloadedMsg{Config: pending})
	if m.showClock {
		t.Error("reload during a pending save reverted the toggle")
	}

	runCmds(cmd)

	read := config.Default()
	read.LoadedAt = time.Now().Add(-time.Hour)
	m = send(t, m, ConfigReloadedMsg{Config: read})
	if m.showClock {
		t.Error("reload read before the save reverted the toggle")
	}

	fresh := config.Default()
	fresh.LoadedAt = time.Now()
	m = send(t, m, ConfigReloadedMsg{Config: fresh})
	if !m.showClock {
		t.Error("reload read after the save should apply")
	}
}

func TestSettingsShowsLastFailure(t *testing.T) {
	m, env := newTestModel(t, true)
	m = press(t, m, "s")
	if strings.Contains(m.View(), "disk full") {
		t.Fatal("no failure yet")
	}

	env.backend.FailWrites = errors.New("disk full")
	m = press(t, m, "a")
	if !strings.Contains(m.View(), "disk full") {
		t.Error("settings should show the failed save")
	}

	env.backend.FailWrites = nil
	m = press(t, m, "a")
	if strings.Contains(m.View(), "disk full") {
		t.Error("failure line should clear after a successful save")
	}
}
