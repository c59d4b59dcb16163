package app

import (
	"context"
	"errors"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepad/internal/notes"
	"github.com/marcus/notepad/internal/styles"
)

// editorField is the focused input of the editor pane.
type editorField int

const (
	fieldTitle editorField = iota
	fieldBody
)

// editor edits the selected note in place. Content hashes of what was
// last loaded or saved gate writes, so cursor moves never persist.
type editor struct {
	noteID int64
	title  textinput.Model
	body   textarea.Model
	field  editorField

	titleHash uint64
	bodyHash  uint64
}

func newEditor() editor {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.TextStyle = styles.Title
	ti.PlaceholderStyle = styles.Muted
	ti.Blur()

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.Placeholder = "Start writing..."
	ta.EndOfBufferCharacter = ' '
	ta.FocusedStyle = textarea.Style{
		Base:             lipgloss.NewStyle(),
		CursorLine:       lipgloss.NewStyle(),
		CursorLineNumber: styles.Muted,
		EndOfBuffer:      styles.Subtle,
		LineNumber:       styles.Muted,
		Placeholder:      styles.Muted,
		Prompt:           lipgloss.NewStyle(),
		Text:             lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	// alt+c is free for the app; the textarea would capitalize words.
	ta.KeyMap.CapitalizeWordForward = key.NewBinding(key.WithDisabled())
	ta.Blur()

	return editor{
		noteID: notes.NoSelection,
		title:  ti,
		body:   ta,
	}
}

// Loaded reports whether a note is open.
func (e *editor) Loaded() bool { return e.noteID != notes.NoSelection }

// Load opens n, replacing any previous content.
func (e *editor) Load(n notes.Note) {
	e.noteID = n.ID
	e.title.SetValue(n.Title)
	e.title.CursorEnd()
	e.body.SetValue(n.Body)
	e.titleHash = xxhash.Sum64String(n.Title)
	e.bodyHash = xxhash.Sum64String(n.Body)
}

// Unload closes the open note.
func (e *editor) Unload() {
	e.noteID = notes.NoSelection
	e.title.SetValue("")
	e.body.SetValue("")
	e.Blur()
}

// Focus moves input focus to field.
func (e *editor) Focus(field editorField) {
	e.field = field
	if field == fieldTitle {
		e.body.Blur()
		e.title.Focus()
		return
	}
	e.title.Blur()
	e.body.Focus()
}

// Blur removes input focus from both fields.
func (e *editor) Blur() {
	e.title.Blur()
	e.body.Blur()
}

// NextField toggles between title and body.
func (e *editor) NextField() {
	if e.field == fieldTitle {
		e.Focus(fieldBody)
	} else {
		e.Focus(fieldTitle)
	}
}

// SetSize lays the fields out in a width x height area.
func (e *editor) SetSize(width, height int) {
	e.title.Width = max(1, width-1)
	e.body.SetWidth(max(1, width))
	e.body.SetHeight(max(1, height))
}

// Update forwards msg to the focused field.
func (e *editor) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if e.field == fieldTitle {
		e.title, cmd = e.title.Update(msg)
	} else {
		e.body, cmd = e.body.Update(msg)
	}
	return cmd
}

// Commit writes changed fields through store. A field is marked saved
// even when the write fails because the store keeps the mutation.
func (e *editor) Commit(ctx context.Context, store *notes.Store) error {
	if !e.Loaded() {
		return nil
	}
	var errs []error

	title := e.title.Value()
	if h := xxhash.Sum64String(title); h != e.titleHash {
		e.titleHash = h
		if err := store.Rename(ctx, e.noteID, title); err != nil {
			errs = append(errs, err)
		}
	}

	body := e.body.Value()
	if h := xxhash.Sum64String(body); h != e.bodyHash {
		e.bodyHash = h
		if err := store.SetBody(ctx, e.noteID, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
