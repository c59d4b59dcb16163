package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	ButtonHoverColor      = lipgloss.Color("#9D174D")
	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	// Row flash colors for notes entering and leaving the list
	EnterColor = lipgloss.Color("#065F46")
	ExitColor  = lipgloss.Color("#7F1D1D")
)

// Panel styles
var (
	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Clock = lipgloss.NewStyle().
		Foreground(TextSecondary)
)

// Toast styles
var (
	ToastSuccess = lipgloss.NewStyle().
			Background(Success).
			Foreground(ToastSuccessTextColor).
			Bold(true).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Background(Error).
			Foreground(ToastErrorTextColor).
			Bold(true).
			Padding(0, 1)
)

// Note list styles
var (
	ListItemNormal = lipgloss.NewStyle().
			Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary)

	ListItemEntering = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(EnterColor)

	ListItemExiting = lipgloss.NewStyle().
			Foreground(TextMuted).
			Background(ExitColor).
			Strikethrough(true)

	ListCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	DeleteMarker = lipgloss.NewStyle().
			Foreground(Error)
)

// Footer and header
var (
	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)
)

// Modal styles
var (
	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary).
			Padding(0, 2).
			Bold(true)

	ButtonHover = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(ButtonHoverColor).
			Padding(0, 2)

	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FCA5A5")).
			Background(lipgloss.Color("#7F1D1D")).
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#DC2626")).
				Padding(0, 2).
				Bold(true)

	ButtonDangerHover = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#B91C1C")).
				Padding(0, 2)
)
