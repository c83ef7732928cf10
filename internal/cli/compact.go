package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	nio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// compactOpts holds the command-line flags for the compact command.
type compactOpts struct {
	output string // output file; stdout when empty
	group  string // group whose contents are compacted
	to     string // output encoding when writing to stdout
}

// compactCommand creates the compact command.
func (c *CLI) compactCommand() *cobra.Command {
	var opts compactOpts

	cmd := &cobra.Command{
		Use:   "compact [file]",
		Short: "Collapse each top-level group into one synthetic leaf",
		Long: `Compact reads a graph document (JSON or TOML), replaces every top-level
group of the selected container with a single leaf that keeps the group's free
pins and boundary links, and writes the resulting document.

Without --output the document is written to stdout.`,
		Example: `  nodegraph compact synth.toml -o synth.compact.json
  nodegraph compact synth.toml --group voice --to toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.runCompact(cmd, runner, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.json or .toml)")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "compact the contents of this group instead of the whole graph")
	cmd.Flags().StringVar(&opts.to, "to", "", "stdout encoding: json, toml (default: input encoding)")

	return cmd
}

func (c *CLI) runCompact(cmd *cobra.Command, runner *pipeline.Runner, input string, opts compactOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	doc, err := nio.ReadFile(input)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := runner.Compact(ctx, doc, pipeline.CompactOptions{Group: opts.group, Logger: logger})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compacted %d groups", res.Stats.GroupsCompacted))

	if opts.output == "" {
		format, err := stdoutFormat(input, opts.to)
		if err != nil {
			return err
		}
		return nio.Encode(cmd.OutOrStdout(), format, res.Document)
	}

	if err := nio.WriteFile(opts.output, res.Document); err != nil {
		return err
	}
	printSuccess("Compacted %s", input)
	printFile(opts.output)
	printCompactSummary(cmd.OutOrStdout(), res)
	printNextStep("Render it", "nodegraph render "+opts.output)
	return nil
}

// stdoutFormat picks the encoding for stdout: the --to flag, else the
// encoding of the input file.
func stdoutFormat(input, to string) (nio.Format, error) {
	if to != "" {
		return nio.ParseFormat(to)
	}
	return nio.FormatFromPath(input)
}

// printCompactSummary reports the compaction stats. The group table goes to
// w, the command's output stream.
func printCompactSummary(w io.Writer, res *pipeline.CompactResult) {
	st := res.Stats
	printStats(len(res.Document.Leaves), len(res.Document.Links), false)
	printKeyValue("Groups", fmt.Sprintf("%d compacted", st.GroupsCompacted))
	printKeyValue("Leaves", fmt.Sprintf("%d copied", st.LeavesCopied))
	printKeyValue("Links", fmt.Sprintf("%d of %d copied", st.LinksCopied, st.LinksConsidered))
	if st.LinksDropped > 0 {
		printWarning("%d links had no counterpart and were dropped", st.LinksDropped)
	}
	if !res.Topology.Acyclic {
		printWarning("compacted graph contains a cycle")
	}
	if len(res.Groups) > 0 {
		fmt.Fprintln(w, groupTable(res.Groups))
	}
}
