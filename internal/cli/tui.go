package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// InspectModel - Interactive compaction browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command. It lists the
// leaves of a compacted graph and shows the origin of the selected one.
type InspectModel struct {
	Title  string
	Rows   []inspectRow
	Cursor int
	Height int
	Offset int

	// Detail toggles the origin pane of the selected row.
	Detail bool

	summary string
}

func newInspectModel(title string, rows []inspectRow, res *pipeline.CompactResult) InspectModel {
	st := res.Stats
	return InspectModel{
		Title:  title,
		Rows:   rows,
		Height: 15,
		Detail: true,
		summary: fmt.Sprintf("%d groups compacted · %d/%d links copied · %d dropped",
			st.GroupsCompacted, st.LinksCopied, st.LinksConsidered, st.LinksDropped),
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Compacted " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.summary))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.ID, r.Kind, fmt.Sprintf("%d/%d", r.Inputs, r.Outputs), r.Source})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Leaf", "Kind", "In/Out", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Rows[idx].Members != nil {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			if col == 2 || col == 3 {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString(detailBoxStyle.Render(m.detail(m.Rows[m.Cursor])))
		b.WriteString("\n")
	}
	return b.String()
}

// detail describes where r came from.
func (m InspectModel) detail(r inspectRow) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(r.ID))
	b.WriteString("\n")
	if r.Members == nil {
		fmt.Fprintf(&b, "copy of leaf %s\n", StyleValue.Render(r.Source))
	} else {
		fmt.Fprintf(&b, "replaces group %s with %s leaves\n",
			StyleValue.Render(r.Source), StyleNumber.Render(fmt.Sprint(len(r.Members))))
		for _, name := range r.Members {
			b.WriteString(listDimStyle.Render("  " + iconInfo + " " + name))
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "%s inputs · %s outputs · %s links",
		StyleNumber.Render(fmt.Sprint(r.Inputs)),
		StyleNumber.Render(fmt.Sprint(r.Outputs)),
		StyleNumber.Render(fmt.Sprint(r.Links)))
	return b.String()
}
