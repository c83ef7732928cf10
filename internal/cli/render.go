package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	nio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
	"github.com/matzehuels/nodegraph/pkg/watch"
)

// renderOpts holds the command-line flags for the render command.
// detailed and clusters are read from the merged config so that a
// nodegraph.toml can set them.
type renderOpts struct {
	output  string  // output file; derived from the input name when empty
	format  string  // dot, svg, png or pdf
	compact bool    // compact before rendering
	group   string  // render the contents of this group
	scale   float64 // PNG scale factor
	refresh bool    // bypass the render cache
	watch   bool    // re-render whenever the input changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: pipeline.DefaultFormat,
		scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph document with Graphviz",
		Long: `Render draws a graph document as DOT, SVG, PNG or PDF. Leaves become
record nodes with one port per pin. With --compact each top-level group is
collapsed into a dashed synthetic leaf first.

PNG and PDF output require rsvg-convert (librsvg).`,
		Example: `  nodegraph render synth.toml
  nodegraph render synth.toml --compact -f png -o synth.png
  nodegraph render synth.toml --group voice --clusters --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts := pipeline.Options{
				Group:    opts.group,
				Compact:  opts.compact,
				Format:   opts.format,
				Detailed: cfg.Detailed,
				Clusters: cfg.Clusters,
				Scale:    opts.scale,
				Refresh:  opts.refresh,
			}
			output := outputPath(opts.output, args[0], opts.format)

			status := cmd.ErrOrStderr()
			if !opts.watch {
				return runRender(cmd.Context(), status, runner, args[0], output, popts)
			}
			return watchRender(cmd.Context(), status, runner, args[0], output, popts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png, pdf")
	cmd.Flags().BoolVarP(&opts.compact, "compact", "c", false, "collapse each top-level group before rendering")
	cmd.Flags().StringVarP(&opts.group, "group", "g", "", "render the contents of this group instead of the whole graph")
	cmd.Flags().Bool("detailed", false, "label pins and show leaf kinds")
	cmd.Flags().Bool("clusters", false, "draw groups as clusters")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the input file changes")

	return cmd
}

// outputPath derives the output file from the input file when output is
// empty: "graph.toml" rendered as svg becomes "graph.svg".
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// runRender renders input once and writes the artifact to output. A spinner
// runs on status while rendering. If ctx ends during the render, ctx.Err()
// is returned instead of the render error.
func runRender(ctx context.Context, status io.Writer, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	doc, err := nio.ReadFile(input)
	if err != nil {
		return err
	}

	sp := startSpinner(ctx, status, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	res, err := runner.Render(ctx, doc, opts)
	sp.Stop()
	if err != nil {
		if sp.Interrupted() {
			return ctx.Err()
		}
		return err
	}

	if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered %s", input)
	printFile(output)
	if res.CacheInfo.Hit {
		leaves, _, links := doc.Stats()
		printStats(leaves, links, true)
	} else {
		printStats(res.Stats.Leaves, res.Stats.Links, false)
	}
	if cr := res.Compaction; cr != nil && cr.Stats.LinksDropped > 0 {
		printWarning("%d links had no counterpart and were dropped", cr.Stats.LinksDropped)
	}
	return nil
}

// watchRender renders input, then again on every change until ctx is done.
// A failed render is reported and watching continues.
func watchRender(ctx context.Context, status io.Writer, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	if err := runRender(ctx, status, runner, input, output, opts); err != nil {
		printError("%s", err)
	}
	printInfo("Watching %s for changes (ctrl+c to stop)", input)

	err := watch.Watch(ctx, input, watch.Options{Logger: logger}, func(ev watch.Event) error {
		logger.Debug("change detected", "path", ev.Path, "events", ev.Count)
		if err := runRender(ctx, status, runner, input, output, opts); err != nil {
			printError("%s", err)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
