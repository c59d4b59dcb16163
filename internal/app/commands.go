package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/config"
)

// Message types for tea.Cmd
type (
	// TickMsg is sent on each clock tick.
	TickMsg time.Time

	// animTickMsg advances list row transitions.
	animTickMsg time.Time

	// ConfigReloadedMsg carries a config file that changed on disk.
	ConfigReloadedMsg struct {
		Config *config.Config
	}

	// configSavedMsg reports the result of persisting settings.
	configSavedMsg struct {
		Err error
	}
)

// tickCmd returns a command that ticks every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTick() tea.Cmd {
	return tea.Tick(animFrame, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// waitForConfig blocks on the next reload from ch. A closed channel ends
// the listen loop.
func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigReloadedMsg{Config: cfg}
	}
}

// saveUICmd persists UI settings off the event loop. seq orders the save
// against others still in flight.
func saveUICmd(w *config.UIWriter, seq uint64, ui config.UIConfig) tea.Cmd {
	return func() tea.Msg {
		return configSavedMsg{Err: w.Save(seq, ui)}
	}
}
