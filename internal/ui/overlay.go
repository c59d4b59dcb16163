// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle applies a dim gray color to background content behind modals.
// We strip existing ANSI codes and apply gray because SGR 2 (faint) doesn't
// reliably combine with existing color codes in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// DimSequence and ResetSequence are the raw ANSI codes used by DimStyle.
// Exported for testing.
const (
	DimSequence   = "\x1b[2m"
	ResetSequence = "\x1b[0m"
)

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		w := ansi.StringWidth(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dimLine strips ANSI codes and applies dim gray styling.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow overlays modalLine onto bgLine at position modalStartX.
// Returns: dimmed-left-segment + modalLine + dimmed-right-segment
func compositeRow(bgLine, modalLine string, modalStartX, modalWidth, totalWidth int) string {
	var result strings.Builder

	// Strip ANSI from background for consistent dimming
	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	// Left segment: dimmed background from 0 to modalStartX
	if modalStartX > 0 {
		// Use ansi.Truncate to get visual-width-based substring
		leftSeg := ansi.Truncate(stripped, modalStartX, "")
		leftWidth := ansi.StringWidth(leftSeg)
		result.WriteString(DimStyle.Render(leftSeg))
		// Pad if background is shorter than modal position
		if leftWidth < modalStartX {
			result.WriteString(strings.Repeat(" ", modalStartX-leftWidth))
		}
	}

	// Modal content (not dimmed)
	result.WriteString(modalLine)

	// Right segment: dimmed background after modal
	rightStartX := modalStartX + modalWidth
	if rightStartX < totalWidth && bgWidth > rightStartX {
		// Use ansi.Cut to get visual-width-based substring from position
		rightSeg := ansi.Cut(stripped, rightStartX, bgWidth)
		result.WriteString(DimStyle.Render(rightSeg))
	}

	return result.String()
}

// OverlayModal composites a modal on top of a dimmed background.
// The modal is centered, with dimmed background visible on all sides.
func OverlayModal(background, modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")
	startX := max(0, (width-maxLineWidth(modalLines))/2)
	startY := max(0, (height-len(modalLines))/2)
	return OverlayModalAt(background, modal, startX, startY, width, height)
}

// OverlayModalAt composites a modal with its top-left cell at (x, y).
// Parts of the modal outside the width x height screen are clipped, so a
// modal being dragged past an edge renders partially.
func OverlayModalAt(background, modal string, x, y, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")
	modalWidth := maxLineWidth(modalLines)

	// Horizontal clip window of the modal, in modal columns.
	clipLeft := max(0, -x)
	clipRight := min(modalWidth, width-x)
	startX := max(0, x)
	visibleWidth := clipRight - clipLeft

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	result := make([]string, 0, height)
	for row := 0; row < height; row++ {
		bgLine := bgLines[row]

		modalRowIdx := row - y
		if visibleWidth <= 0 || modalRowIdx < 0 || modalRowIdx >= len(modalLines) {
			result = append(result, dimLine(bgLine))
			continue
		}

		line := modalLines[modalRowIdx]
		if clipLeft > 0 || clipRight < modalWidth {
			line = ansi.Cut(line, clipLeft, clipRight)
		}
		result = append(result, compositeRow(bgLine, line, startX, visibleWidth, width))
	}

	return strings.Join(result, "\n")
}
