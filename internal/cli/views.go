package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/archonhq/archon/pkg/io"
)

// viewsCommand creates the views command for listing a model's views.
func (c *CLI) viewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views [model.json]",
		Short: "List the views of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := io.ReadModelFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}

			if len(m.Views) == 0 {
				printInfo("Model has no views")
				return nil
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			rows := make([][]string, 0, len(m.Views))
			for _, v := range m.Views {
				layoutable := "✓"
				if !v.Kind.Layoutable() {
					layoutable = "—"
				}
				rows = append(rows, []string{
					v.ID,
					v.Name,
					string(v.Kind),
					layoutable,
					fmt.Sprintf("%d", len(v.Nodes)),
					fmt.Sprintf("%d", len(v.Connections)),
				})
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Name", "Kind", "Layout", "Nodes", "Connections").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					return lipgloss.NewStyle()
				})

			fmt.Println(t.Render())
			return nil
		},
	}
}
