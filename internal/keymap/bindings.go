package keymap

// Contexts in which bindings apply.
const (
	ContextGlobal   = "global"
	ContextList     = "list"
	ContextEditor   = "editor"
	ContextConfirm  = "confirm"
	ContextSettings = "settings"
)

// Command IDs.
const (
	CmdQuit           = "quit"
	CmdNewNote        = "new-note"
	CmdDeleteNote     = "delete-note"
	CmdOpenNote       = "open-note"
	CmdRenameNote     = "rename-note"
	CmdCloseNote      = "close-note"
	CmdCursorUp       = "cursor-up"
	CmdCursorDown     = "cursor-down"
	CmdCursorTop      = "cursor-top"
	CmdCursorBottom   = "cursor-bottom"
	CmdFocusList      = "focus-list"
	CmdNextField      = "next-field"
	CmdYankBody       = "yank-body"
	CmdYankTitle      = "yank-title"
	CmdToggleAsk      = "toggle-ask"
	CmdToggleSettings = "toggle-settings"
	CmdToggleFooter   = "toggle-footer"
	CmdToggleClock    = "toggle-clock"
	CmdConfirm        = "confirm"
	CmdCancel         = "cancel"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},
		{Key: "ctrl+n", Command: CmdNewNote, Context: ContextGlobal},
		{Key: "ctrl+s", Command: CmdToggleSettings, Context: ContextGlobal},
		{Key: "ctrl+o", Command: CmdToggleFooter, Context: ContextGlobal},

		// Note list
		{Key: "q", Command: CmdQuit, Context: ContextList},
		{Key: "n", Command: CmdNewNote, Context: ContextList},
		{Key: "d", Command: CmdDeleteNote, Context: ContextList},
		{Key: "delete", Command: CmdDeleteNote, Context: ContextList},
		{Key: "enter", Command: CmdOpenNote, Context: ContextList},
		{Key: "e", Command: CmdOpenNote, Context: ContextList},
		{Key: "r", Command: CmdRenameNote, Context: ContextList},
		{Key: "x", Command: CmdCloseNote, Context: ContextList},
		{Key: "k", Command: CmdCursorUp, Context: ContextList},
		{Key: "up", Command: CmdCursorUp, Context: ContextList},
		{Key: "j", Command: CmdCursorDown, Context: ContextList},
		{Key: "down", Command: CmdCursorDown, Context: ContextList},
		{Key: "g", Command: CmdCursorTop, Context: ContextList},
		{Key: "home", Command: CmdCursorTop, Context: ContextList},
		{Key: "G", Command: CmdCursorBottom, Context: ContextList},
		{Key: "end", Command: CmdCursorBottom, Context: ContextList},
		{Key: "y", Command: CmdYankBody, Context: ContextList},
		{Key: "Y", Command: CmdYankTitle, Context: ContextList},
		{Key: "a", Command: CmdToggleAsk, Context: ContextList},
		{Key: "s", Command: CmdToggleSettings, Context: ContextList},
		{Key: "c", Command: CmdToggleClock, Context: ContextList},

		// Editor (title and body fields)
		{Key: "esc", Command: CmdFocusList, Context: ContextEditor},
		{Key: "tab", Command: CmdNextField, Context: ContextEditor},
		{Key: "shift+tab", Command: CmdNextField, Context: ContextEditor},

		// Delete confirmation
		{Key: "y", Command: CmdConfirm, Context: ContextConfirm},
		{Key: "n", Command: CmdCancel, Context: ContextConfirm},

		// Settings panel
		{Key: "a", Command: CmdToggleAsk, Context: ContextSettings},
		{Key: "s", Command: CmdToggleSettings, Context: ContextSettings},
	}
}

// RegisterDefaults adds DefaultBindings to r.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
