package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlas-finance/atlas/internal/postlog"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the runs that posted to the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			return runHistory(cmd.OutOrStdout(), r.root)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")

	return cmd
}

func runHistory(out io.Writer, root string) error {
	entries, err := postlog.Read(root)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No postings yet")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "When\tCommand\tPosted\tSkipped\tCommit")
	for _, e := range entries {
		commit := e.CommitHash
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Command, len(e.Posted), e.Skipped, commit)
	}
	return tw.Flush()
}
