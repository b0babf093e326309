package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kmonadfmt/pkg/align"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxPickerWidth is the largest width offered by the interactive picker.
const maxPickerWidth = 12

// =============================================================================
// WidthModel - Interactive column width selection
// =============================================================================

// WidthModel is the bubbletea model for picking a (defsrc) column width.
type WidthModel struct {
	Widths   []int
	Cursor   int
	Selected int // 0 until a width is chosen

	// Preview renders the (defsrc) block at a width, or an error.
	Preview func(width int) (string, error)
}

// NewWidthModel creates a picker over the supported widths, starting at
// current.
func NewWidthModel(current int, preview func(int) (string, error)) WidthModel {
	m := WidthModel{Preview: preview}
	for w := errs.MinWidth; w <= maxPickerWidth; w++ {
		if w == current {
			m.Cursor = len(m.Widths)
		}
		m.Widths = append(m.Widths, w)
	}
	return m
}

func (m WidthModel) Init() tea.Cmd {
	return nil
}

func (m WidthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j", "right", "l":
			if m.Cursor < len(m.Widths)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Widths[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m WidthModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select (defsrc) Column Width"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ change  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, w := range m.Widths {
		cell := fmt.Sprintf(" %2d ", w)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("[" + strings.TrimSpace(cell) + "]"))
		} else {
			b.WriteString(listNormalStyle.Render(cell))
		}
	}
	b.WriteString("\n\n")

	if m.Preview != nil && len(m.Widths) > 0 {
		text, err := m.Preview(m.Widths[m.Cursor])
		if err != nil {
			b.WriteString(StyleWarning.Render(errs.UserMessage(err)))
		} else {
			b.WriteString(listDimStyle.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// PlaceholderModel - Interactive placeholder selection
// =============================================================================

// PlaceholderModel is the bubbletea model for picking what a new layer is
// filled with.
type PlaceholderModel struct {
	Cursor   int
	Selected *align.Placeholder
}

// NewPlaceholderModel creates a placeholder picker.
func NewPlaceholderModel() PlaceholderModel {
	return PlaceholderModel{}
}

func (m PlaceholderModel) Init() tea.Cmd {
	return nil
}

func (m PlaceholderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(align.Placeholders)-1 {
				m.Cursor++
			}
		case "enter":
			p := align.Placeholders[m.Cursor].Value
			m.Selected = &p
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PlaceholderModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Fill New Layer With"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, p := range align.Placeholders {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-6s %s", cursor, p.Value, listDimStyle.Render(p.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Check Report
// =============================================================================

// checkReport renders the results of a check run as a table.
func checkReport(results []pipeline.FileResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status, info := "ok", r.Info
		switch {
		case r.Err != nil:
			status, info = "error", errs.UserMessage(r.Err)
		case r.Changed:
			status = "unformatted"
		case r.Cached:
			status = iconCached
		}
		rows = append(rows, []string{r.Path, status, info})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Status", "Info").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col != 1 || row >= len(rows) {
				return base
			}
			switch rows[row][1] {
			case "error":
				return base.Foreground(colorRed)
			case "unformatted":
				return base.Foreground(colorYellow)
			}
			return base.Foreground(colorGreen)
		})
	return t.Render()
}
