package main

import (
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"metricchart/internal/render"
)

func newInspectCmd() *cobra.Command {
	var (
		flags   chartFlags
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the elements of a drawn chart.",
		Long: `Draw one chart and print its retained elements as a table: tag, class,
bound datum index, visibility and attributes. With --summary only the
element counts per tag and class are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svg, err := flags.draw()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)

			if summary {
				counts := render.Summary(svg)
				keys := lo.Keys(counts)
				sort.Strings(keys)
				table.SetHeader([]string{"Element", "Count"})
				for _, k := range keys {
					table.Append([]string{k, strconv.Itoa(counts[k])})
				}
				table.SetFooter([]string{"Total", strconv.Itoa(svg.Len())})
			} else {
				table.SetHeader(render.InspectHeader)
				table.AppendBulk(render.Inspect(svg))
			}
			table.Render()
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print element counts only")
	return cmd
}
