package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajeshg/openchem/pkg/pipeline"
)

// canonOpts holds the command-line flags for the canon command.
type canonOpts struct {
	kekulize bool // emit kekulized output
	plain    bool // strip stereo descriptors
	refresh  bool // bypass the cache
	noCache  bool // disable caching entirely
	quiet    bool // print only canonical strings
}

// canonCommand creates the canon command.
//
// It accepts SMILES strings as arguments, or reads one per line from
// stdin when no arguments are given. Each canonical string is printed on
// its own line, so output pipes cleanly into other tools.
func (c *CLI) canonCommand() *cobra.Command {
	opts := canonOpts{
		kekulize: c.Config.Canon.Kekulize,
		plain:    c.Config.Canon.Plain,
	}

	cmd := &cobra.Command{
		Use:   "canon [SMILES...]",
		Short: "Canonicalize SMILES strings",
		Long: `Canonicalize SMILES strings.

Each input is parsed, perceived for aromaticity, and re-emitted as the
canonical SMILES for its molecule. Two inputs describing the same
molecule always produce the same output.

Examples:
  openchem canon "OCC"                 # prints CCO
  openchem canon "C1=CC=CC=C1" "CCO"   # multiple inputs
  cat molecules.smi | openchem canon   # one SMILES per line from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer runner.Close()

			inputs := args
			if len(inputs) == 0 {
				inputs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no input SMILES given")
			}

			prog := newProgress(c.Logger)
			failures := 0
			for _, input := range inputs {
				canonical, hit, err := runner.CanonicalizeWithCacheInfo(cmd.Context(), pipeline.Options{
					Input:    input,
					Kekulize: opts.kekulize,
					Plain:    opts.plain,
					Refresh:  opts.refresh,
					Logger:   c.Logger,
				})
				if err != nil {
					failures++
					if opts.quiet {
						fmt.Fprintf(os.Stderr, "error: %s: %v\n", input, err)
						continue
					}
					printError("%s: %v", input, err)
					continue
				}
				if opts.quiet {
					fmt.Println(canonical)
					continue
				}
				fmt.Println(canonical)
				printStats(0, 0, hit)
			}

			if !opts.quiet {
				prog.done(fmt.Sprintf("Canonicalized %d molecules", len(inputs)-failures))
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d inputs failed", failures, len(inputs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.kekulize, "kekulize", opts.kekulize, "emit kekulized output (localized double bonds)")
	cmd.Flags().BoolVar(&opts.plain, "plain", opts.plain, "strip stereo descriptors")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only canonical strings")

	return cmd
}

// readLines reads non-empty lines from r, trimming surrounding whitespace.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
