package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects themeRegistry and currentTheme
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	ButtonHover      string `json:"buttonHover"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	Enter string `json:"enter"` // Row flash for added notes
	Exit  string `json:"exit"`  // Row flash for removed notes
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED",
			Secondary: "#3B82F6",
			Accent:    "#F59E0B",

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",
			Info:    "#3B82F6",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			ButtonHover:      "#9D174D",
			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",

			Enter: "#065F46",
			Exit:  "#7F1D1D",
		},
	}

	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Paper",
		Colors: ColorPalette{
			Primary:   "#6D28D9",
			Secondary: "#2563EB",
			Accent:    "#D97706",

			Success: "#059669",
			Warning: "#D97706",
			Error:   "#DC2626",
			Info:    "#2563EB",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			TextSubtle:    "#9CA3AF",

			BgPrimary:   "#FFFFFF",
			BgSecondary: "#F3F4F6",
			BgTertiary:  "#E5E7EB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			ButtonHover:      "#DB2777",
			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",

			Enter: "#A7F3D0",
			Exit:  "#FECACA",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"light":   LightTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "default"

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies a theme by name, updating all style variables
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with color overrides from config.
// Overrides that are not valid hex colors are ignored.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	if !IsValidTheme(name) {
		name = DefaultTheme.Name
	}
	theme := GetTheme(name)
	for key, value := range overrides {
		applySingleOverride(&theme.Colors, key, value)
	}

	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = name
	themeMu.Unlock()
}

func applySingleOverride(palette *ColorPalette, key, value string) {
	if !IsValidHexColor(value) {
		return
	}

	switch key {
	case "primary":
		palette.Primary = value
	case "secondary":
		palette.Secondary = value
	case "accent":
		palette.Accent = value
	case "success":
		palette.Success = value
	case "warning":
		palette.Warning = value
	case "error":
		palette.Error = value
	case "info":
		palette.Info = value
	case "textPrimary":
		palette.TextPrimary = value
	case "textSecondary":
		palette.TextSecondary = value
	case "textMuted":
		palette.TextMuted = value
	case "textSubtle":
		palette.TextSubtle = value
	case "bgPrimary":
		palette.BgPrimary = value
	case "bgSecondary":
		palette.BgSecondary = value
	case "bgTertiary":
		palette.BgTertiary = value
	case "borderNormal":
		palette.BorderNormal = value
	case "borderActive":
		palette.BorderActive = value
	case "buttonHover":
		palette.ButtonHover = value
	case "toastSuccessText":
		palette.ToastSuccessText = value
	case "toastErrorText":
		palette.ToastErrorText = value
	case "enter":
		palette.Enter = value
	case "exit":
		palette.Exit = value
	}
}

// ApplyThemeColors updates all style package variables from a theme.
// It must run before the program starts; the bubbletea loop reads these
// variables without locking.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	ButtonHoverColor = lipgloss.Color(c.ButtonHover)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	EnterColor = lipgloss.Color(c.Enter)
	ExitColor = lipgloss.Color(c.Exit)

	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

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

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

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
}
