package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajeshg/openchem/pkg/molfmt"
	"github.com/rajeshg/openchem/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	kekulize bool   // localize aromatic bonds before output
	output   string // output file path (stdout if empty)
}

// parseCommand creates the parse command.
//
// The command parses a single SMILES string and prints the perceived
// molecular graph as JSON, which molfmt can re-import. This is the
// debugging entry point: it shows exactly what the canonicalizer sees.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{}

	cmd := &cobra.Command{
		Use:   "parse <SMILES>",
		Short: "Parse a SMILES string and print the molecule as JSON",
		Long: `Parse a SMILES string and print the perceived molecule as JSON.

The output lists every atom (with charge, implicit hydrogens and stereo
descriptors) and bond after aromaticity perception, so it reflects the
exact graph the canonicalizer works on.

Examples:
  openchem parse "c1ccccc1"
  openchem parse -o mol.json "CC(=O)O"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pipeline.Parse(cmd.Context(), pipeline.Options{
				Input:    args[0],
				Kekulize: opts.kekulize,
				Logger:   c.Logger,
			})
			if err != nil {
				return err
			}

			if opts.output == "" {
				return molfmt.WriteJSON(m, os.Stdout)
			}

			if err := molfmt.ExportJSON(m, opts.output); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Parsed %d atoms, %d bonds", m.NumAtoms(), m.NumBonds())
			printFile(opts.output)
			printNextStep("Render it", fmt.Sprintf("openchem render %q", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.kekulize, "kekulize", false, "localize aromatic bonds before output")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
