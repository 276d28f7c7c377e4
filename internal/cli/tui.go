package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deckgrid/deckgrid/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// configBrowser - Interactive slide browsing
// =============================================================================

// configBrowser is the bubbletea model for browsing a deck configuration:
// a slide list on the left, the selected slide's parameters on the right.
type configBrowser struct {
	cfg    report.Config
	cursor int
	height int
	offset int
}

func newConfigBrowser(cfg report.Config) configBrowser {
	return configBrowser{cfg: cfg, height: 15}
}

func (m configBrowser) Init() tea.Cmd {
	return nil
}

func (m configBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.cfg.Slides)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		if msg.Height > 6 {
			m.height = msg.Height - 6
		}
	}
	return m, nil
}

func (m configBrowser) View() string {
	if len(m.cfg.Slides) == 0 {
		return listDimStyle.Render("No slides in configuration. Press q to quit.\n")
	}

	var list strings.Builder
	end := m.offset + m.height
	if end > len(m.cfg.Slides) {
		end = len(m.cfg.Slides)
	}
	for i := m.offset; i < end; i++ {
		line := fmt.Sprintf("%2d  %s", i+1, titleOf(m.cfg.Slides[i]))
		if i == m.cursor {
			list.WriteString(listSelectedStyle.Render("> " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	left := lipgloss.NewStyle().Width(32).Render(list.String())
	right := m.detailView(m.cfg.Slides[m.cursor])
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := listDimStyle.Render("↑/↓ move · q quit")
	return StyleTitle.Render("deckgrid slides") + "\n\n" + body + "\n" + help + "\n"
}

// detailView renders the selected slide's parameters.
func (m configBrowser) detailView(p report.Parameters) string {
	var b strings.Builder
	write := func(key, value string) {
		b.WriteString(listDimStyle.Render(key+": ") + listNormalStyle.Render(value) + "\n")
	}

	write("title", titleOf(p))
	write("layout", layoutOf(p))
	write("split", splitOf(p))
	entries := p.Content.Strings()
	if len(entries) == 0 {
		write("content", "(empty)")
	}
	for i, entry := range entries {
		write(fmt.Sprintf("content[%d]", i), entry)
	}
	if notes := p.Notes.Strings(); len(notes) > 0 {
		write("notes", strings.Join(notes, " | "))
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}
