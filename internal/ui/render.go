package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jokefinder/internal/joke"
	"github.com/five82/jokefinder/internal/logtail"
)

const (
	headerLines = 2
	footerLines = 2
	linesPerFav = 4
)

func (m Model) bodyHeight() int {
	h := m.height - headerLines - footerLines
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) resizeViewports() {
	m.favViewport.Width = m.width
	m.favViewport.Height = m.bodyHeight()
	m.logViewport.Width = m.width
	m.logViewport.Height = m.bodyHeight()
}

func (m Model) selectedFavorite() (joke.Joke, bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Favorites) {
		return joke.Joke{}, false
	}
	return m.snapshot.Favorites[m.selected], true
}

// renderMain renders header, active view and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		label := v.String()
		if v == ViewFavorites {
			label = fmt.Sprintf("%s (%d)", label, len(m.snapshot.Favorites))
		}
		if v == m.currentView {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}

	status := styles.SuccessText.Render("online")
	switch {
	case m.snapshot.IsOffline():
		status = styles.DangerText.Render("offline")
	case m.snapshot.LastError != nil:
		status = styles.WarningText.Render("last fetch failed")
	}

	left := styles.Logo.Render("JokeFinder") + "  " + strings.Join(tabs, " ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	line := styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + status)
	rule := styles.FaintText.Render(strings.Repeat("─", max(m.width, 0)))
	return line + "\n" + rule
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFavorites:
		return m.favViewport.View()
	case ViewLogs:
		return m.logViewport.View()
	default:
		return m.renderJoke()
	}
}

func (m Model) renderJoke() string {
	styles := m.theme.Styles()
	height := m.bodyHeight()

	var body string
	switch {
	case m.snapshot.Current == nil && m.snapshot.LastError != nil && !m.fetching:
		body = styles.DangerText.Render("No joke yet.") + "\n\n" +
			styles.MutedText.Render("Press n to try again.")
	case m.snapshot.Current == nil || m.fetching:
		body = m.spinner.View() + " " + styles.MutedText.Render("Fetching a joke...")
	default:
		body = m.renderJokeCard(*m.snapshot.Current)
	}

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderJokeCard(j joke.Joke) string {
	styles := m.theme.Styles()
	width := min(max(m.width-10, 20), 72)

	var b strings.Builder
	b.WriteString(styles.CategoryStyle(j.Category).Render(j.Category))
	b.WriteString(" ")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%d", j.ID)))
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().Width(width)
	if j.Setup != nil {
		b.WriteString(styles.Text.Inherit(text).Render(*j.Setup))
		b.WriteString("\n\n")
	}
	if j.Punchline != nil {
		b.WriteString(styles.AccentText.Inherit(text).Bold(true).Render(*j.Punchline))
	}
	if j.Setup == nil && j.Punchline == nil {
		b.WriteString(styles.MutedText.Render("This joke has no text."))
	}
	return styles.Card.Render(b.String())
}

func (m *Model) updateFavoritesViewport() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	favs := m.snapshot.Favorites
	if len(favs) == 0 {
		m.favViewport.SetContent(lipgloss.Place(m.favViewport.Width, m.favViewport.Height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No favourite jokes")))
		m.favViewport.GotoTop()
		return
	}

	var b strings.Builder
	for i, j := range favs {
		title := fmt.Sprintf(" #%d ", j.ID)
		if i == m.selected {
			title = styles.Selected.Render(title)
		} else {
			title = styles.AccentText.Render(title)
		}
		b.WriteString(title + " " + styles.CategoryStyle(j.Category).Render(j.Category) + "\n")
		b.WriteString("   " + styles.Text.Render(truncate(j.SetupText(), m.width-4)) + "\n")
		b.WriteString("   " + styles.MutedText.Render(truncate(j.PunchlineText(), m.width-4)) + "\n")
		if i < len(favs)-1 {
			b.WriteString("\n")
		}
	}
	m.favViewport.SetContent(b.String())

	top := m.selected * linesPerFav
	switch {
	case top < m.favViewport.YOffset:
		m.favViewport.SetYOffset(top)
	case top+linesPerFav-1 >= m.favViewport.YOffset+m.favViewport.Height:
		m.favViewport.SetYOffset(top + linesPerFav - m.favViewport.Height)
	}
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	if m.logErr != nil {
		m.logViewport.SetContent(styles.DangerText.Render("Log unavailable: " + m.logErr.Error()))
		return
	}
	if len(m.logEntries) == 0 {
		m.logViewport.SetContent(styles.MutedText.Render("Log is empty"))
		return
	}

	atBottom := m.logViewport.AtBottom()
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e))
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) formatLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	if e.Level != "" {
		parts = append(parts, styles.LevelStyle(e.Level).Render(fmt.Sprintf("%-5s", e.Level)))
	}
	parts = append(parts, styles.Text.Render(e.Message))
	if e.Fields != "" {
		parts = append(parts, styles.MutedText.Render(e.Fields))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	flash := ""
	if m.flash != "" {
		if m.flashIsErr {
			flash = styles.WarningText.Render(m.flash)
		} else {
			flash = styles.SuccessText.Render(m.flash)
		}
	}
	return styles.Footer.Width(m.width).Render(flash) + "\n" + m.help.View(m.keys)
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
