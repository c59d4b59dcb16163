package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepad/internal/mouse"
	"github.com/marcus/notepad/internal/styles"
)

const (
	// titleRows is the title line plus the blank line below it.
	titleRows = 2
	// screenMargin keeps this many rows free around the modal.
	screenMargin = 6
)

// block is one rendered, non-empty section.
type block struct {
	content    string
	height     int
	focusables []FocusableInfo
}

// buildLayout renders the sections into a scrollable box, places it on
// the screen and registers hit regions on handler.
func (m *Modal) buildLayout(screenW, screenH int, handler *mouse.Handler) string {
	maxW := max(1, screenW-4)
	boxW := clamp(m.width, min(MinModalWidth, maxW), maxW)
	textW := max(1, boxW-ModalPadding)

	header := 0
	if m.title != "" {
		header = titleRows
	}
	budget := max(1, screenH-screenMargin-header)

	blocks := m.measure(textW)
	scroll := blocksHeight(blocks) > budget
	if scroll && textW > 1 {
		// Make room for the scrollbar column.
		blocks = m.measure(textW - 1)
		scroll = blocksHeight(blocks) > budget
	}
	m.recordFocusRows(blocks)

	total := blocksHeight(blocks)
	viewH := budget
	if !scroll {
		viewH = max(1, total)
	}
	m.lastViewportH = viewH
	m.scrollOffset = clamp(m.scrollOffset, 0, max(0, total-viewH))

	body := sliceLines(joinBlocks(blocks), m.scrollOffset, viewH, scroll)
	if scroll {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, renderScrollbar(total, m.scrollOffset, viewH))
	}
	if m.title != "" {
		body = m.renderTitle() + "\n" + body
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.variant.accent()).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(boxW).
		Render(body)
	m.place(screenW, screenH, lipgloss.Width(box), lipgloss.Height(box), handler)

	if handler != nil {
		m.registerRegions(handler.HitMap, screenW, screenH, header, viewH, blocks)
	}
	return box
}

// measure renders every section at width. Focus is settled against the
// rendered focusables; if that moves it, the sections render again so the
// focus styling matches.
func (m *Modal) measure(width int) []block {
	blocks := m.renderBlocks(width)
	if m.adoptFocus(blocks) {
		blocks = m.renderBlocks(width)
	}
	return blocks
}

func (m *Modal) renderBlocks(width int) []block {
	focusID := m.currentFocusID()
	blocks := make([]block, 0, len(m.sections))
	for _, s := range m.sections {
		res := s.Render(width, focusID, m.hoverID)
		h := measureHeight(res.Content)
		if res.Content == "" && h == 0 {
			continue
		}
		blocks = append(blocks, block{content: res.Content, height: h, focusables: res.Focusables})
	}
	return blocks
}

// adoptFocus rebuilds the focus order from blocks, applying any pending
// SetFocus. It reports whether the focused element changed.
func (m *Modal) adoptFocus(blocks []block) bool {
	before := m.currentFocusID()

	ids := make([]string, 0, len(m.focusIDs))
	for _, b := range blocks {
		for _, f := range b.focusables {
			ids = append(ids, f.ID)
		}
	}
	m.focusIDs = ids
	if m.pendingFocus != "" {
		m.SetFocus(m.pendingFocus)
	}
	if m.focusIdx >= len(m.focusIDs) {
		m.focusIdx = 0
	}
	return m.currentFocusID() != before
}

func (m *Modal) recordFocusRows(blocks []block) {
	m.focusRows = make(map[string]rowSpan, len(m.focusIDs))
	row := 0
	for _, b := range blocks {
		for _, f := range b.focusables {
			m.focusRows[f.ID] = rowSpan{top: row + f.OffsetY, height: f.Height}
		}
		row += b.height
	}
}

// registerRegions replaces hm's regions with the backdrop, the box, its
// title bar and every focusable visible in the viewport.
func (m *Modal) registerRegions(hm *mouse.HitMap, screenW, screenH, header, viewH int, blocks []block) {
	hm.Clear()
	hm.AddRect(RegionBackdrop, 0, 0, screenW, screenH, nil)
	hm.AddRect(RegionBody, m.x, m.y, m.w, m.h, nil)
	// The top border and padding row grab the modal along with the title.
	hm.AddRect(RegionTitle, m.x, m.y, m.w, 2+min(header, 1), nil)

	left := m.x + 3
	top := m.y + 2 + header
	row := top - m.scrollOffset
	for _, b := range blocks {
		for _, f := range b.focusables {
			y := row + f.OffsetY
			if y < top+viewH && y+f.Height > top {
				hm.AddRect(f.ID, left+f.OffsetX, y, f.Width, f.Height, f.ID)
			}
		}
		row += b.height
	}
}

// place sets the modal's top-left cell. A draggable modal is centred on
// its first render; afterwards it sits wherever handler's drag left it,
// bounded to the screen once the drag is released.
func (m *Modal) place(screenW, screenH, w, h int, handler *mouse.Handler) {
	m.w, m.h = w, h
	center := mouse.Point{X: (screenW - w) / 2, Y: (screenH - h) / 2}

	if !m.draggable || handler == nil {
		m.x, m.y = center.X, center.Y
		return
	}

	d := handler.Drag
	d.SetViewport(mouse.Rect{W: screenW, H: screenH}, mouse.Point{X: w, Y: h})
	if !m.placed {
		d.SetPosition(center)
		m.placed = true
	}
	p := d.Clamp()
	m.x, m.y = p.X, p.Y
}

func (m *Modal) renderTitle() string {
	style := styles.ModalTitle
	if m.variant != VariantDefault {
		style = style.Foreground(m.variant.accent())
	}
	return style.Render(m.title)
}

func blocksHeight(blocks []block) int {
	h := 0
	for _, b := range blocks {
		h += b.height
	}
	return h
}

func joinBlocks(blocks []block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.content
	}
	return strings.Join(parts, "\n")
}

// renderScrollbar draws a one-column track with a thumb sized to the
// visible share of total rows.
func renderScrollbar(total, offset, viewH int) string {
	if viewH < 1 || total < 1 {
		return ""
	}
	thumb := clamp(viewH*viewH/total, 1, viewH)
	pos := clamp(offset*(viewH-thumb)/max(1, total-viewH), 0, viewH-thumb)

	track := lipgloss.NewStyle().Foreground(styles.TextSubtle).Render("│")
	bar := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("┃")

	lines := make([]string, viewH)
	for i := range lines {
		lines[i] = track
		if i >= pos && i < pos+thumb {
			lines[i] = bar
		}
	}
	return strings.Join(lines, "\n")
}

// sliceLines returns height lines of content starting at offset, padded
// with blank lines when pad is set.
func sliceLines(content string, offset, height int, pad bool) string {
	lines := strings.Split(content, "\n")
	lines = lines[clamp(offset, 0, max(0, len(lines)-1)):]
	if len(lines) > height {
		lines = lines[:height]
	}
	for pad && len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
