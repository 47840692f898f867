package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WatchModel - Live status of watched arrows
// =============================================================================

// arrowStatus is the last known state of one watched arrow.
type arrowStatus struct {
	Passes  int
	Outcome string
	Box     string
	Path    string
	Err     string
	At      time.Time
}

// WatchModel is the bubbletea model showing one row per watched arrow.
type WatchModel struct {
	Page   string
	Arrows []arrowStatus
	now    func() time.Time
}

// newWatchModel creates a status model for n arrows over page.
func newWatchModel(page string, n int) WatchModel {
	return WatchModel{Page: page, Arrows: make([]arrowStatus, n), now: time.Now}
}

func (m WatchModel) Init() tea.Cmd {
	return nil
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case watchPassMsg:
		if msg.Index < 0 || msg.Index >= len(m.Arrows) {
			return m, nil
		}
		s := &m.Arrows[msg.Index]
		s.Passes++
		s.Outcome = msg.Pass.Outcome.String()
		s.At = m.now()
		s.Box, s.Err = "", ""
		if msg.Path != "" {
			s.Path = msg.Path
			s.Box = msg.Pass.Geometry.Box.String()
		}
		if msg.Err != nil {
			s.Err = msg.Err.Error()
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watching " + m.Page))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Arrows))
	for i, s := range m.Arrows {
		outcome, seen := s.Outcome, "-"
		if outcome == "" {
			outcome = "pending"
		}
		if !s.At.IsZero() {
			seen = formatAge(m.now().Sub(s.At))
		}
		rows[i] = []string{strconv.Itoa(i + 1), outcome, strconv.Itoa(s.Passes), orDash(s.Box), orDash(s.Path), seen}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("#", "Outcome", "Passes", "Bounds", "Output", "Last").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row < 0 || row >= len(m.Arrows) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				return outcomeStyle(m.Arrows[row].Outcome)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	for i, s := range m.Arrows {
		if s.Err != "" {
			b.WriteString(StyleError.Render(fmt.Sprintf("arrow %d: %s", i+1, s.Err)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatAge renders a short relative duration such as "3s ago".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
