package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/graph"
	nio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// inspectRow describes one leaf of a compacted graph and where it came from.
type inspectRow struct {
	ID      string
	Kind    string
	Inputs  int
	Outputs int
	Links   int

	// Source is the original group of a synthetic leaf, or the original
	// leaf of a copy.
	Source string

	// Members lists the original leaves inside Source, at any depth.
	// Empty for copies.
	Members []string
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		group string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse a compacted graph and map its leaves back to the original",
		Long: `Inspect compacts a graph document and lists the resulting leaves. For
each synthetic leaf it shows the group it replaces and the leaves that group
contained; for each copied leaf it shows the original.

Runs an interactive view in a terminal; use --plain for a static table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := nio.ReadFile(args[0])
			if err != nil {
				return err
			}
			// Inspection never renders, so it needs no cache.
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
			res, err := runner.Compact(ctx, doc, pipeline.CompactOptions{Group: group})
			if err != nil {
				return err
			}

			rows := inspectRows(res)
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), inspectTable(rows))
				return nil
			}
			_, err = tea.NewProgram(newInspectModel(args[0], rows, res), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "compact the contents of this group instead of the whole graph")
	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table instead of the interactive view")

	return cmd
}

// inspectRows lists the leaves of the compacted graph in creation order:
// synthetic leaves first, then copies.
func inspectRows(res *pipeline.CompactResult) []inspectRow {
	cp := res.Compacter
	g := cp.Graph()
	ids := graph.AssignIDs(g)

	rows := make([]inspectRow, 0, len(g.Leaves()))
	for _, leaf := range g.Leaves() {
		row := inspectRow{
			ID:      ids.Leaves[leaf],
			Kind:    leaf.Kind().String(),
			Inputs:  len(leaf.Inputs()),
			Outputs: len(leaf.Outputs()),
			Links:   len(leaf.Links()),
		}
		if grp, ok := cp.GroupOf(leaf); ok {
			row.Source = grp.Name()
			members := grp.AllLeaves()
			row.Members = make([]string, 0, len(members))
			for _, member := range members {
				row.Members = append(row.Members, member.Name())
			}
			sort.Strings(row.Members)
		} else if orig, ok := cp.OriginalOf(leaf); ok {
			row.Source = orig.Name()
		}
		rows = append(rows, row)
	}
	return rows
}

// inspectTable renders rows as a static table.
func inspectTable(rows []inspectRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.ID,
			r.Kind,
			fmt.Sprintf("%d/%d", r.Inputs, r.Outputs),
			fmt.Sprintf("%d", r.Links),
			r.Source,
			strings.Join(r.Members, ", "),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Leaf", "Kind", "In/Out", "Links", "Source", "Members").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row < len(rows) && rows[row].Members != nil && col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
