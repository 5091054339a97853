package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archonhq/archon/pkg/cache"
	"github.com/archonhq/archon/pkg/io"
	"github.com/archonhq/archon/pkg/layout"
	"github.com/archonhq/archon/pkg/model"
)

// layoutFlags collects the flag surface of the layout command.
type layoutFlags struct {
	view      string
	all       bool
	selection []string

	direction string
	spacing   float64
	routing   string
	preset    string

	noRespectLocked bool
	noCache         bool
	output          string
}

// layoutCommand creates the layout command for computing view layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	defaults := c.Config.LayoutOptions()

	cmd := &cobra.Command{
		Use:   "layout [model.json]",
		Short: "Compute automatic layout for diagram views",
		Long: `Compute automatic layout for diagram views.

The layout command reads a model file, runs the auto-layout pipeline for
one view (--view), all layoutable views (--all), or an interactively
picked view, and writes the updated model back.

Selection scope (--select, repeatable) restricts a run to the named view
nodes; everything else stays where it is. Locked nodes keep their
positions unless --no-respect-locked is given.

Solver results are cached locally, keyed by graph structure, so re-runs
after cosmetic edits are fast.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, defaults)
		},
	}

	cmd.Flags().StringVar(&flags.view, "view", "", "view id to lay out")
	cmd.Flags().BoolVar(&flags.all, "all", false, "lay out every layoutable view")
	cmd.Flags().StringArrayVar(&flags.selection, "select", nil, "restrict the run to a view node id (repeatable)")

	cmd.Flags().StringVar(&flags.direction, "direction", string(defaults.Direction), "flow direction: RIGHT or DOWN")
	cmd.Flags().Float64Var(&flags.spacing, "spacing", defaults.Spacing, "node spacing in pixels")
	cmd.Flags().StringVar(&flags.routing, "routing", string(defaults.EdgeRouting), "edge routing: POLYLINE or ORTHOGONAL")
	cmd.Flags().StringVar(&flags.preset, "preset", string(defaults.Preset), "layout preset: flow, tree, network, radial, flow_bands")

	cmd.Flags().BoolVar(&flags.noRespectLocked, "no-respect-locked", false, "allow the solver to move locked nodes")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the persistent layout cache")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: overwrite the input)")

	return cmd
}

// runLayout loads the model, resolves the target views, runs the pipeline
// for each, and writes the model back.
func (c *CLI) runLayout(ctx context.Context, input string, flags layoutFlags, defaults layout.Options) error {
	m, err := io.ReadModelFile(input)
	if err != nil {
		return fmt.Errorf("load model %s: %w", input, err)
	}

	viewIDs, err := resolveViews(m, flags)
	if err != nil {
		return err
	}
	if len(viewIDs) == 0 {
		printInfo("Nothing to lay out")
		return nil
	}

	opts := defaults
	opts.Direction = layout.Direction(flags.direction)
	opts.Spacing = flags.spacing
	opts.EdgeRouting = layout.Routing(flags.routing)
	opts.Preset = layout.Preset(flags.preset)
	opts.RespectLocked = !flags.noRespectLocked
	if len(flags.selection) > 0 {
		opts.Scope = layout.ScopeSelection
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	store := model.NewStore(m)
	engine := layout.NewEngine(store, c.Provider,
		layout.WithCache(c.newLayoutCache(flags.noCache), cache.NewDefaultKeyer()),
		layout.WithLogger(c.Logger))

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	results := make([]*layout.Result, 0, len(viewIDs))
	for _, viewID := range viewIDs {
		spinner.SetMessage(fmt.Sprintf("Laying out %s...", viewID))
		result, err := engine.AutoLayoutView(ctx, viewID, opts, flags.selection)
		if err != nil {
			spinner.StopWithError("Layout failed")
			return fmt.Errorf("lay out view %s: %w", viewID, err)
		}
		results = append(results, result)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = input
	}
	if store.Dirty() {
		if err := io.WriteModelFile(m, outputPath); err != nil {
			return fmt.Errorf("write model %s: %w", outputPath, err)
		}
		store.ClearDirty()
	}
	prog.done(fmt.Sprintf("Laid out %d view(s)", len(results)))

	printSuccess("Layout complete")
	printFile(outputPath)
	for _, r := range results {
		if len(results) > 1 {
			printDetail("%s:", r.ViewID)
		}
		printRunStats(r.Nodes, r.Edges, r.Changed, r.Source, r.Skipped)
	}
	printNewline()
	printNextStep("Inspect", "archon views "+outputPath)

	return nil
}

// resolveViews picks the target view ids from flags, falling back to the
// interactive picker on a terminal.
func resolveViews(m *model.Model, flags layoutFlags) ([]string, error) {
	if flags.all {
		var ids []string
		for _, v := range m.Views {
			if v.Kind.Layoutable() {
				ids = append(ids, v.ID)
			}
		}
		return ids, nil
	}
	if flags.view != "" {
		return []string{flags.view}, nil
	}
	return pickView(m)
}
