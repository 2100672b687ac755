package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Simplici0/childsupport/internal/schedule"
)

func tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the reference schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := schedule.Default()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)

			header := lo.Times(schedule.BracketCount, func(i int) string {
				lower, _ := s.BracketRange(i)
				return humanize.Comma(lower) + "+"
			})
			fmt.Fprintf(tw, "age\t%s\t\n", strings.Join(header, "\t"))
			for _, g := range s.AgeGroups {
				row := lo.Map(g.Amounts, func(a int64, _ int) string { return humanize.Comma(a) })
				fmt.Fprintf(tw, "%s\t%s\t\n", g.Label, strings.Join(row, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d schedule, monthly amounts per child by combined parental income.\n", s.Year)
			return nil
		},
	}
}
