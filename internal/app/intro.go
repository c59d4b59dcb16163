package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	logoText   = "notepad"
	introFrame = 16 * time.Millisecond
	// introLimit ends the reveal even if a letter has not settled.
	introLimit = 3 * time.Second
)

// logoIntro slides the header logo in, letter by letter, on startup.
type logoIntro struct {
	active  bool
	done    bool
	elapsed time.Duration
	letters []*introLetter
}

type introLetter struct {
	char    rune
	targetX float64
	x       float64

	// Letters overshoot their slot, then settle back.
	overshot     bool
	overshootMax float64

	startColor rgb
	endColor   rgb
	color      rgb

	delay time.Duration
}

type rgb struct {
	R, G, B float64
}

func hexToRGB(hex string) rgb {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return rgb{float64(r), float64(g), float64(b)}
}

func (c rgb) lipgloss() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B)))
}

// newLogoIntro prepares the reveal. A disabled intro renders nothing and
// reports done immediately.
func newLogoIntro(enabled bool, from, to string) *logoIntro {
	if !enabled {
		return &logoIntro{done: true}
	}
	startGradient := hexToRGB(from)
	endGradient := hexToRGB(to)

	startColors := []string{
		"#EF4444", // Red
		"#3B82F6", // Blue
		"#10B981", // Green
		"#8B5CF6", // Purple
		"#EC4899", // Pink
		"#06B6D4", // Cyan
		"#F97316", // Orange
	}

	runes := []rune(logoText)
	letters := make([]*introLetter, len(runes))
	for i, char := range runes {
		t := float64(i) / float64(len(runes)-1)
		target := rgb{
			R: startGradient.R + t*(endGradient.R-startGradient.R),
			G: startGradient.G + t*(endGradient.G-startGradient.G),
			B: startGradient.B + t*(endGradient.B-startGradient.B),
		}
		start := hexToRGB(startColors[i%len(startColors)])
		letters[i] = &introLetter{
			char:         char,
			x:            -20.0 - float64(i)*10.0,
			targetX:      float64(i),
			overshootMax: float64(i) + 0.5 + float64(i)*0.1,
			startColor:   start,
			endColor:     target,
			color:        start,
			delay:        time.Duration(i) * 120 * time.Millisecond,
		}
	}
	return &logoIntro{active: true, letters: letters}
}

// Done reports whether the reveal has finished.
func (l *logoIntro) Done() bool { return l.done }

// Skip ends the reveal at once.
func (l *logoIntro) Skip() {
	l.active = false
	l.done = true
}

// Advance moves every started letter forward by dt.
func (l *logoIntro) Advance(dt time.Duration) {
	if !l.active {
		return
	}
	l.elapsed += dt
	settled := true

	for _, c := range l.letters {
		if l.elapsed < c.delay {
			settled = false
			continue
		}

		var target, speed float64
		if !c.overshot {
			target, speed = c.overshootMax, 30.0
			if c.x >= c.overshootMax-0.1 {
				c.overshot = true
			}
		} else {
			target, speed = c.targetX, 5.0
		}

		dist := target - c.x
		move := dist * 6.0 * dt.Seconds()
		if math.Abs(move) > math.Abs(dist) {
			move = dist
		}
		minMove := speed * dt.Seconds()
		if math.Abs(dist) > 0.1 && math.Abs(move) < minMove {
			move = math.Copysign(minMove, dist)
		}
		c.x += move

		k := 3.0 * dt.Seconds()
		c.color.R += (c.endColor.R - c.color.R) * k
		c.color.G += (c.endColor.G - c.color.G) * k
		c.color.B += (c.endColor.B - c.color.B) * k

		if !c.overshot ||
			math.Abs(c.targetX-c.x) >= 0.1 ||
			math.Abs(c.endColor.R-c.color.R) >= 1.0 {
			settled = false
		}
	}

	if settled || l.elapsed >= introLimit {
		l.Skip()
	}
}

// View renders the logo in its current frame, always len(logoText) cells.
func (l *logoIntro) View() string {
	buf := make([]string, len(l.letters))
	for i := range buf {
		buf[i] = " "
	}
	for _, c := range l.letters {
		x := int(math.Round(c.x))
		if x >= 0 && x < len(buf) {
			style := lipgloss.NewStyle().Foreground(c.color.lipgloss()).Bold(true)
			buf[x] = style.Render(string(c.char))
		}
	}
	return strings.Join(buf, "")
}

// introTickMsg advances the logo reveal.
type introTickMsg time.Time

func introTick() tea.Cmd {
	return tea.Tick(introFrame, func(t time.Time) tea.Msg {
		return introTickMsg(t)
	})
}
