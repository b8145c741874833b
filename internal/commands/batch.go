package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/journal"
	"github.com/atlas-finance/atlas/internal/model"
	"github.com/atlas-finance/atlas/internal/register"
	"github.com/atlas-finance/atlas/internal/render"
)

type batchFlags struct {
	input   string
	format  string
	query   string
	repoDir string
	post    bool
}

func newBatchCommand(a *app) *cobra.Command {
	var f batchFlags

	cmd := &cobra.Command{
		Use:   "batch [register.csv...]",
		Short: "Compute schedules for every asset of one or more registers",
		Long: `Compute schedules for every asset of one or more registers.

With no arguments, every CSV under <repo>/import/ is read. With --post, those
files are moved to import/processed/ once their postings are in the journal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.OutOrStdout(), a.logger, args, f)
		},
	}

	cmd.Flags().StringVar(&f.input, "input-format", "", "register layout: atlas or ledger (detected when empty)")
	cmd.Flags().StringVar(&f.format, "format", formatTable, "table, csv, json or journal")
	cmd.Flags().StringVar(&f.query, "query", "", "JSONPath applied to the json output, e.g. '$[*].total'")
	cmd.Flags().StringVar(&f.repoDir, "repo", ".", "repository directory")
	cmd.Flags().BoolVar(&f.post, "post", false, "append the postings to the repo journal")

	return cmd
}

func runBatch(out io.Writer, logger *zap.Logger, files []string, f batchFlags) error {
	r, err := openRepo(f.repoDir)
	if err != nil {
		return err
	}

	inbox := register.Inbox{Root: r.root}
	scanned := len(files) == 0
	if scanned {
		if files, err = inbox.Pending(); err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(out, "No registers in import/")
			return nil
		}
	}

	registry := register.DefaultRegistry()
	var assets []model.Asset
	for _, path := range files {
		list, err := registry.ReadFile(path, f.input)
		if err != nil {
			return err
		}
		logger.Debug("register read", zap.String("file", path), zap.Int("assets", len(list)))
		assets = append(assets, list...)
	}

	summaries := make([]export.Summary, 0, len(assets))
	var postings []model.Posting
	for _, a := range assets {
		res, err := r.generate(a, "")
		if err != nil {
			return err
		}
		summaries = append(summaries, export.Summary{AssetCode: a.Code, Name: a.Name, ClassCode: a.ClassCode, Result: res})
		postings = append(postings, res.Postings...)
	}

	if f.query != "" {
		err = writeQuery(out, scheduleDTOs(summaries), f.query)
	} else {
		err = writeBatch(out, f.format, r.cfg.Business.Currency, summaries, postings)
	}
	if err != nil {
		return err
	}

	if !f.post {
		return nil
	}
	if err := r.post(out, logger, "batch", postings, fmt.Sprintf("post: dotations for %d assets", len(assets))); err != nil {
		return err
	}
	if scanned {
		for _, path := range files {
			if err := inbox.Archive(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Processed %s\n", r.repoPath(path))
		}
	}
	return nil
}

func writeBatch(out io.Writer, format, currency string, summaries []export.Summary, postings []model.Posting) error {
	switch format {
	case formatTable:
		return render.Summaries(out, summaries, render.NewFormatter(currency))
	case formatCSV:
		return export.WriteSummaries(out, summaries)
	case formatJSON:
		return export.WriteJSON(out, scheduleDTOs(summaries))
	case formatJournal:
		return journal.WriteLegs(out, journal.PostingLegs(postings))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func scheduleDTOs(summaries []export.Summary) []export.ScheduleDTO {
	dtos := make([]export.ScheduleDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, export.NewSchedule(s.AssetCode, s.Result))
	}
	return dtos
}
