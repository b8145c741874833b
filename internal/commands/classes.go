package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atlas-finance/atlas/internal/classification"
	"github.com/atlas-finance/atlas/internal/export"
)

func newClassesCommand() *cobra.Command {
	var repoDir string
	var format string

	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the asset classification table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			return runClasses(cmd.OutOrStdout(), r.classes, format)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&format, "format", formatTable, "table, csv or json")

	return cmd
}

func runClasses(out io.Writer, svc *classification.Service, format string) error {
	all := svc.All()
	switch format {
	case formatTable:
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Code\tLabel\tLife\tMethod\tRate\tAccumulated\tExpense")
		for _, c := range all {
			rate := "-"
			if !c.StatedRate.IsZero() {
				rate = c.StatedRate.String() + "%"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				c.Code, c.Label, c.UsefulLifeYears, c.Method, rate, c.AccumulatedAccount, c.ExpenseAccount)
		}
		return tw.Flush()
	case formatCSV:
		return classification.WriteClasses(out, all)
	case formatJSON:
		dtos := make([]export.ClassDTO, 0, len(all))
		for _, c := range all {
			dtos = append(dtos, export.NewClass(c))
		}
		return export.WriteJSON(out, dtos)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
