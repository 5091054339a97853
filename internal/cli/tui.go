package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickView resolves the target view when neither --view nor --all was
// given: a single layoutable view is used directly, several open the
// interactive picker.
func pickView(m *model.Model) ([]string, error) {
	var candidates []*model.View
	for _, v := range m.Views {
		if v.Kind.Layoutable() {
			candidates = append(candidates, v)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return []string{candidates[0].ID}, nil
	}

	picker := newViewListModel(candidates)
	final, err := tea.NewProgram(picker).Run()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
			"cannot open the view picker, pass --view or --all")
	}
	result := final.(viewListModel)
	if result.Selected == nil {
		return nil, nil
	}
	return []string{result.Selected.ID}, nil
}

// =============================================================================
// viewListModel - Interactive view selection
// =============================================================================

// viewListModel is the bubbletea model for picking the view to lay out.
type viewListModel struct {
	Views    []*model.View
	Cursor   int
	Selected *model.View
	Height   int
	Offset   int
}

func newViewListModel(views []*model.View) viewListModel {
	return viewListModel{Views: views, Height: 15}
}

func (m viewListModel) Init() tea.Cmd {
	return nil
}

func (m viewListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Views)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Views[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m viewListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select View"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Views) {
		end = len(m.Views)
	}

	for i := m.Offset; i < end; i++ {
		v := m.Views[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := v.Name
		if name == "" {
			name = v.ID
		}
		detail := fmt.Sprintf("%s · %d nodes", v.Kind, len(v.Nodes))
		line := fmt.Sprintf("%s%-30s  %s", cursor, name, listDimStyle.Render(detail))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Views))))

	return b.String()
}
