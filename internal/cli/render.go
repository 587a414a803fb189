package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajeshg/openchem/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats string // comma-separated output formats
	layout  string // graphviz layout engine
	showIDs bool   // include atom ids in labels
	output  string // output basename (derived from input if empty)
	noCache bool   // disable caching
	refresh bool   // bypass cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		formats: strings.Join(c.Config.Render.Formats, ","),
		layout:  c.Config.Render.Layout,
	}

	cmd := &cobra.Command{
		Use:   "render <SMILES>",
		Short: "Render a molecule depiction",
		Long: `Render a molecule as SVG, PNG, DOT, or JSON.

The molecule is canonicalized first, so depictions are cached under the
canonical SMILES: any input describing the same molecule reuses the
same artifact.

Examples:
  openchem render "c1ccccc1"                     # benzene.svg next to cwd
  openchem render -f svg,png -o caffeine "Cn1cnc2c1c(=O)n(C)c(=O)n2C"
  openchem render --layout dot "CC(=O)O"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering...")
			spinner.Start()

			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				Input:   args[0],
				Refresh: opts.refresh,
				Formats: parseFormats(opts.formats),
				Layout:  opts.layout,
				ShowIDs: opts.showIDs,
				Logger:  c.Logger,
			})
			if err != nil {
				spinner.StopWithError("Render failed")
				return err
			}
			spinner.Stop()

			base := opts.output
			if base == "" {
				base = defaultBasename(result.Canonical)
			}

			printSuccess("Rendered %s", StyleHighlight.Render(result.Canonical))
			printStats(result.Stats.AtomCount, result.Stats.BondCount, result.CacheInfo.RenderHit)

			for format, data := range result.Artifacts {
				path := base + "." + format
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "formats", "f", opts.formats, "comma-separated output formats (svg,png,dot,json)")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "graphviz layout engine (neato, dot, fdp, circo)")
	cmd.Flags().BoolVar(&opts.showIDs, "show-ids", false, "include atom ids in labels")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output basename (derived from the molecule if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// defaultBasename derives a filesystem-safe basename from a canonical
// SMILES string.
func defaultBasename(canonical string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", "(", "", ")", "", "[", "", "]", "",
		"=", "-", "#", "-", "@", "", "%", "", ".", "_", ":", "_",
	)
	base := replacer.Replace(canonical)
	if len(base) > 32 {
		base = base[:32]
	}
	if base == "" {
		base = "molecule"
	}
	return filepath.Clean(base)
}
