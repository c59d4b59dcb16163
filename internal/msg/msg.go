package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Default toast durations.
const (
	ToastShort = 2 * time.Second
	ToastLong  = 5 * time.Second
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowErrorToast returns a command to show err as an error toast.
// A nil err yields a nil command.
func ShowErrorToast(prefix string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	text := err.Error()
	if prefix != "" {
		text = prefix + ": " + text
	}
	return func() tea.Msg {
		return ToastMsg{
			Message:  text,
			Duration: ToastLong,
			IsError:  true,
		}
	}
}
