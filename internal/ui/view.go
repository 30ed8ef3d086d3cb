package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/gossip-tui/internal/bridge"
	"github.com/atomicstack/gossip-tui/internal/format/table"
	"github.com/atomicstack/gossip-tui/internal/notedata"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	noteRows      = 2 // meta line + content line
	shortKeyLen   = 16
	itemIndicator = "▌"
)

var mainPageLabels = map[bridge.MainPage]string{
	bridge.MainPageFeed:     "Feed",
	bridge.MainPageInbox:    "Inbox",
	bridge.MainPageSettings: "Settings",
}

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	var lines []styledLine
	if m.appPage == bridge.AppPageWelcome {
		lines = m.welcomeLines()
	} else {
		lines = m.mainLines()
	}
	lines = applyWidth(lines, m.width)
	lines = limitHeight(lines, m.height, m.width)
	return renderLines(lines)
}

func (m *Model) welcomeLines() []styledLine {
	lines := []styledLine{{text: appTitle, style: styles.Title}, {}}
	if m.signer.HasPubkey {
		lines = append(lines, styledLine{text: "identity " + shortKey(m.signer.PubkeyBech), style: styles.Info})
	} else {
		lines = append(lines, styledLine{text: "No identity yet. The password you enter will create one.", style: styles.Info})
	}
	lines = append(lines, styledLine{}, styledLine{text: m.password.View(), raw: true})
	if m.unlocking {
		lines = append(lines, styledLine{text: "Unlocking…", style: styles.Info})
	}
	if m.loginError != "" {
		lines = append(lines, styledLine{text: m.loginError, style: styles.Error})
	}
	lines = append(lines, styledLine{}, styledLine{text: "enter unlock · esc quit", style: styles.Footer})
	return lines
}

func (m *Model) mainLines() []styledLine {
	lines := []styledLine{{text: m.tabBar(), raw: true}}
	if m.showsFeed() {
		lines = append(lines, m.noteLines()...)
	} else {
		lines = append(lines, m.settingsLines()...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	lines = append(lines, m.footerLine())
	return lines
}

func (m *Model) tabBar() string {
	tabs := make([]string, 0, len(bridge.MainPages)+1)
	for _, page := range bridge.MainPages {
		style := styles.TabInactive
		if page == m.mainPage {
			style = styles.TabActive
		}
		tabs = append(tabs, style.Render(mainPageLabels[page]))
	}
	tabs = append(tabs, m.signerStatus())
	return strings.Join(tabs, " ")
}

func (m *Model) signerStatus() string {
	if m.signer.IsUnlocked {
		return styles.Unlocked.Render("● " + shortKey(m.signer.PubkeyBech))
	}
	return styles.Locked.Render("○ locked")
}

func (m *Model) noteLines() []styledLine {
	if m.feed.Len() == 0 {
		msg := "(no notes)"
		if strings.TrimSpace(m.feed.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", m.feed.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	m.syncViewport()
	visible, start := m.feed.Window(m.maxVisibleNotes())
	lines := make([]styledLine, 0, len(visible)*noteRows)
	for i, entry := range visible {
		if entry.Index < 0 || entry.Index >= len(m.notes) {
			continue
		}
		lines = append(lines, m.buildNoteLines(m.notes[entry.Index], start+i == m.feed.Cursor)...)
	}
	return lines
}

// buildNoteLines renders the meta line and a single-line content preview.
// Selected rows are padded so the background spans the full width.
func (m *Model) buildNoteLines(note notedata.Note, selected bool) []styledLine {
	metaStyle, bodyStyle := styles.ItemMeta, styles.Item
	indicatorStyle := styles.ItemIndicator
	if selected {
		metaStyle, bodyStyle = styles.SelectedItem, styles.SelectedItem
		indicatorStyle = styles.SelectedItemIndicator
	}
	meta := itemIndicator + " " + shortKey(note.Author) + " · " + note.CreatedAgo
	body := itemIndicator + " " + flatten(notedata.PlainText(note.Content))
	if selected && m.width > 0 {
		meta = padRight(meta, m.width)
		body = padRight(body, m.width)
	}
	return []styledLine{
		{text: meta, style: metaStyle, prefixStyle: indicatorStyle, highlightFrom: 1},
		{text: body, style: bodyStyle, prefixStyle: indicatorStyle, highlightFrom: 1},
	}
}

func (m *Model) settingsLines() []styledLine {
	orNone := func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	}
	private := "none"
	if m.signer.HasSigner {
		private = "sealed"
	}
	status := "locked"
	if m.signer.IsUnlocked {
		status = "unlocked"
	}
	rows := table.KeyValue([][2]string{
		{"public key", orNone(m.signer.PubkeyBech)},
		{"hex", orNone(m.signer.PubkeyHex)},
		{"private key", private},
		{"status", status},
	})
	lines := make([]styledLine, 0, len(rows)+1)
	lines = append(lines, styledLine{text: "Identity", style: styles.Header})
	for _, row := range rows {
		lines = append(lines, styledLine{text: row, style: styles.Item})
	}
	return lines
}

func (m *Model) footerLine() styledLine {
	if m.filtering || m.feed.Filter != "" {
		return styledLine{text: m.filter.View() + m.countSuffix(), raw: true}
	}
	help := "tab page · j/k move · / filter · r refresh · q quit"
	return styledLine{text: help + m.countSuffix(), style: styles.Footer}
}

func (m *Model) countSuffix() string {
	if !m.showsFeed() || len(m.notes) == 0 {
		return ""
	}
	pos := 0
	if m.feed.Len() > 0 {
		pos = m.feed.Cursor + 1
	}
	return fmt.Sprintf("  %d/%d", pos, m.feed.Len())
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) maxVisibleNotes() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // tab bar + footer
	if m.currentInfo() != "" {
		used++
	}
	remain := (m.height - used) / noteRows
	if remain < 1 {
		return 1
	}
	return remain
}

func shortKey(key string) string {
	runes := []rune(key)
	if len(runes) <= shortKeyLen {
		return key
	}
	return string(runes[:shortKeyLen-1]) + "…"
}

func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func padRight(text string, width int) string {
	if pad := width - len([]rune(text)); pad > 0 {
		return text + strings.Repeat(" ", pad)
	}
	return text
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		if line.raw {
			if lipgloss.Width(line.text) > width {
				line.text = truncate.StringWithTail(line.text, uint(width-1), "…")
			}
		} else {
			line.text = truncateText(line.text, width)
		}
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
