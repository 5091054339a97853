package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archonhq/archon/pkg/io"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [model.json]",
		Short: "Check a model file for broken references",
		Long: `Check a model file for broken references.

Validation verifies that relationships point at existing elements and
that view nodes and connections reference objects that exist in the
model. A valid file exits 0; problems are reported and exit 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := io.ReadModelFile(args[0])
			if err != nil {
				return fmt.Errorf("load model %s: %w", args[0], err)
			}
			if err := m.Validate(); err != nil {
				printError("Model is invalid")
				printDetail("%v", err)
				return err
			}

			printSuccess("Model is valid")
			printDetail("%d elements, %d relationships, %d views",
				len(m.Elements), len(m.Relationships), len(m.Views))
			return nil
		},
	}
}
