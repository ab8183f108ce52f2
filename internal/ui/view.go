package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marquee/internal/media"
	"marquee/internal/tmdb"
)

const cardWidth = 18

var (
	accent = lipgloss.Color("#E50914")
	muted  = lipgloss.Color("#8A8A8A")
	light  = lipgloss.Color("#F5F5F1")

	appTitleStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	heroTitleStyle = lipgloss.NewStyle().Foreground(light).Bold(true)
	ratingStyle    = lipgloss.NewStyle().Foreground(accent)
	mutedStyle     = lipgloss.NewStyle().Foreground(muted)
	sectionStyle   = lipgloss.NewStyle().Foreground(light).Bold(true).MarginTop(1)
	spinnerStyle   = lipgloss.NewStyle().Foreground(accent)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)

	heroStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	trailerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(accent).
			Bold(true).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Width(cardWidth).
			Height(2)

	activeCardStyle = cardStyle.BorderForeground(accent)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.heroView())
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Continue to watch"))
	b.WriteString("\n")
	b.WriteString(m.carouselView())
	b.WriteString("\n")
	if rv := m.recentView(); rv != "" {
		b.WriteString(rv)
		b.WriteString("\n")
	}
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) headerView() string {
	title := appTitleStyle.Render("marquee")
	if m.searching {
		return title + "  " + m.input.View()
	}
	if q := strings.TrimSpace(m.state.SearchQuery); q != "" {
		return title + "  " + mutedStyle.Render(fmt.Sprintf("results for %q", q))
	}
	return title + "  " + mutedStyle.Render("popular now")
}

func (m Model) heroView() string {
	width := max(m.width-4, 20)
	sel := m.state.Selected
	if sel == nil {
		return heroStyle.Width(width).Render(mutedStyle.Render("No movie selected"))
	}

	var lines []string
	if m.state.TrailerVisible {
		lines = append(lines, trailerStyle.Render("▶ Playing trailer (x to close)"))
	}
	lines = append(lines,
		heroTitleStyle.Render(sel.Title),
		ratingStyle.Render(fmt.Sprintf("Rating: %.1f", sel.VoteAverage)),
	)
	if sel.Overview != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width-2).Render(sel.Overview))
	}
	if u := tmdb.ImageURL(m.opts.ImageHost, tmdb.BackdropSize, sel.BackdropPath); u != "" {
		lines = append(lines, mutedStyle.Render(u))
	}
	if len(sel.Videos) == 0 {
		lines = append(lines, mutedStyle.Render("No trailer available"))
	}
	return heroStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) carouselView() string {
	perRow := m.cardsPerRow()
	cards := visibleCards(m.state, perRow)
	if len(cards) == 0 {
		return mutedStyle.Render("  nothing here yet")
	}

	rendered := make([]string, 0, len(cards)+2)
	if m.state.CarouselOffset > 0 {
		rendered = append(rendered, mutedStyle.Render("❮ "))
	}
	for i, c := range cards {
		style := cardStyle
		if i == m.cursor && !m.searching {
			style = activeCardStyle
		}
		rendered = append(rendered, style.Render(cardBody(c)))
	}
	if canAdvance(m.state, perRow) {
		rendered = append(rendered, mutedStyle.Render(" ❯"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

func (m Model) recentView() string {
	if len(m.state.RecentlyViewed) == 0 {
		return ""
	}
	cards := make([]string, 0, len(m.state.RecentlyViewed))
	for _, d := range m.state.RecentlyViewed {
		cards = append(cards, cardStyle.Render(cardBody(d.MovieSummary)))
	}
	return sectionStyle.Render("Recently watched") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) statusView() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case m.loading > 0:
		return m.spinner.View() + mutedStyle.Render(" loading...")
	default:
		return mutedStyle.Render(m.status)
	}
}

func cardBody(s media.MovieSummary) string {
	return truncate(s.Title, cardWidth) + "\n" + ratingStyle.Render(fmt.Sprintf("★ %.1f", s.VoteAverage))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
