package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// LayoutListModel - Interactive layout selection
// =============================================================================

// LayoutListModel is the bubbletea model for interactive layout selection.
type LayoutListModel struct {
	Layouts  []layout.Layout
	Cursor   int
	Selected layout.Layout
}

// NewLayoutListModel creates a new layout list model.
func NewLayoutListModel(layouts []layout.Layout) LayoutListModel {
	return LayoutListModel{Layouts: layouts}
}

func (m LayoutListModel) Init() tea.Cmd {
	return nil
}

func (m LayoutListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Layouts)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Layouts) == 0 {
				return m, nil
			}
			m.Selected = m.Layouts[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LayoutListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Layouts))
	for i, l := range m.Layouts {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = append([]string{cursor}, layoutRow(l)...)
	}

	t := layoutTable(rows, true, func(row, col int) lipgloss.Style {
		if row == m.Cursor {
			return listSelectedStyle
		}
		if col >= 3 {
			return listDimStyle
		}
		return lipgloss.NewStyle()
	})

	b.WriteString(t.Render())
	if sel := m.selectedSchema(); sel != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(sel))
	}
	return b.String()
}

// selectedSchema summarizes the fields of the layout under the cursor.
func (m LayoutListModel) selectedSchema() string {
	if m.Cursor >= len(m.Layouts) {
		return ""
	}
	var parts []string
	for _, f := range m.Layouts[m.Cursor].Schema() {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Name, f.Default))
	}
	return "  " + strings.Join(parts, "  ")
}

// =============================================================================
// Helpers
// =============================================================================

// layoutRow returns the name, display name, shader families and field count.
func layoutRow(l layout.Layout) []string {
	return []string{l.Name(), l.DisplayName(), shaderList(l.RequiredShaders()), fmt.Sprintf("%d", len(l.Schema()))}
}

func shaderList(shapes []draw.Shape) string {
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

// layoutTable renders rows under the layout headers. With cursor set, the
// first column of each row holds the selection marker.
func layoutTable(rows [][]string, cursor bool, style func(row, col int) lipgloss.Style) *table.Table {
	headers := []string{"Name", "Display Name", "Shaders", "Fields"}
	if cursor {
		headers = append([]string{""}, headers...)
	}
	return newTable(headers, rows, style)
}

// newTable builds a rounded table with styled headers.
func newTable(headers []string, rows [][]string, style func(row, col int) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			return style(row, col)
		})
}
