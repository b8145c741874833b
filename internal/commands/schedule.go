package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/classification"
	"github.com/atlas-finance/atlas/internal/depreciation"
	"github.com/atlas-finance/atlas/internal/export"
	"github.com/atlas-finance/atlas/internal/gitops"
	"github.com/atlas-finance/atlas/internal/journal"
	"github.com/atlas-finance/atlas/internal/model"
	"github.com/atlas-finance/atlas/internal/postlog"
	"github.com/atlas-finance/atlas/internal/render"
)

// Output formats shared by schedule and batch.
const (
	formatTable    = "table"
	formatCSV      = "csv"
	formatJSON     = "json"
	formatJournal  = "journal"
	formatMarkdown = "markdown"
	formatPretty   = "pretty"
)

type scheduleFlags struct {
	asset   model.Asset
	cost    string
	costs   [4]string // purchase, transport, installation, other
	resid   string
	method  string
	rate    string
	start   string
	stub    string
	format  string
	query   string
	repoDir string
	post    bool
}

func newScheduleCommand(a *app) *cobra.Command {
	var f scheduleFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the depreciation schedule of one asset",
		Example: `  atlas schedule --cost 12000 --life 4 --method straight_line --start 2024-07-01
  atlas schedule --class 2442 --purchase 2400 --installation 100 --start 2024-01-15 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd.OutOrStdout(), a.logger, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.asset.Code, "asset", "", "asset code stamped into posting references")
	flags.StringVar(&f.asset.Name, "name", "", "asset name shown in reports")
	flags.StringVar(&f.asset.ClassCode, "class", "", "asset class code; fills life, method and rate")
	flags.StringVar(&f.cost, "cost", "", "acquisition cost")
	flags.StringVar(&f.costs[0], "purchase", "", "purchase price")
	flags.StringVar(&f.costs[1], "transport", "", "transport cost")
	flags.StringVar(&f.costs[2], "installation", "", "installation cost")
	flags.StringVar(&f.costs[3], "other", "", "other capitalized cost")
	flags.StringVar(&f.resid, "residual", "", "residual value")
	flags.IntVar(&f.asset.UsefulLifeYears, "life", 0, "useful life in years")
	flags.StringVar(&f.method, "method", "", "straight_line, declining_balance or non_depreciable")
	flags.StringVar(&f.rate, "rate", "", "stated declining rate in percent")
	flags.StringVar(&f.start, "start", "", "start of service, YYYY-MM-DD")
	flags.StringVar(&f.stub, "stub-policy", "", "closing_complement or prorated_stub")
	flags.StringVar(&f.format, "format", formatTable, "table, csv, json, journal, markdown or pretty")
	flags.StringVar(&f.query, "query", "", "JSONPath applied to the json output, e.g. '$.lines[*].expense'")
	flags.StringVar(&f.repoDir, "repo", ".", "repository directory")
	flags.BoolVar(&f.post, "post", false, "append the postings to the repo journal")
	cmd.MarkFlagsMutuallyExclusive("cost", "purchase")

	return cmd
}

func runSchedule(out io.Writer, logger *zap.Logger, f scheduleFlags) error {
	if f.post && f.asset.Code == "" {
		return errors.New("--post needs --asset: journal references are keyed by asset code")
	}

	r, err := openRepo(f.repoDir)
	if err != nil {
		return err
	}

	asset, err := f.toAsset()
	if err != nil {
		return err
	}

	res, err := r.generate(asset, f.stub)
	if err != nil {
		return err
	}
	logger.Debug("schedule computed",
		zap.String("asset", asset.Code),
		zap.String("kind", string(res.Kind)),
		zap.Int("periods", len(res.Lines)),
	)

	if f.query != "" {
		err = writeQuery(out, export.NewSchedule(asset.Code, res), f.query)
	} else {
		err = writeSchedule(out, f.format, r.cfg.Business.Currency, asset, res)
	}
	if err != nil {
		return err
	}

	if f.post {
		return r.post(out, logger, "schedule", res.Postings, "post: dotations "+asset.Code)
	}
	return nil
}

// toAsset parses the flag values. Cost components are summed; --cost is the
// purchase price when no breakdown is given.
func (f scheduleFlags) toAsset() (model.Asset, error) {
	a := f.asset
	var err error

	if f.cost != "" {
		f.costs[0] = f.cost
	}
	dst := []*decimal.Decimal{&a.Cost.Purchase, &a.Cost.Transport, &a.Cost.Installation, &a.Cost.Other}
	names := []string{"purchase", "transport", "installation", "other"}
	for i, s := range f.costs {
		if *dst[i], err = export.ParseAmount(names[i], s); err != nil {
			return a, err
		}
	}
	if a.ResidualValue, err = export.ParseAmount("residual", f.resid); err != nil {
		return a, err
	}
	if a.StatedRate, err = export.ParseAmount("rate", f.rate); err != nil {
		return a, err
	}

	if f.method != "" {
		if a.Method, err = model.ParseMethod(f.method); err != nil {
			return a, err
		}
	}

	if f.start != "" {
		if a.StartDate, err = time.Parse(model.DateFormat, f.start); err != nil {
			return a, fmt.Errorf("parsing --start %q: expected YYYY-MM-DD", f.start)
		}
	}
	return a, nil
}

// generate resolves the asset's class and config defaults, then computes.
func (r *repo) generate(a model.Asset, stub string) (depreciation.Result, error) {
	params, accounts, err := classification.Resolve(r.classes, a.ClassCode, a.Parameters())
	if err != nil {
		return depreciation.Result{}, err
	}
	if params.Method == "" {
		params.Method = r.cfg.DefaultMethod()
	}

	policy := r.cfg.StubPolicy()
	if stub != "" {
		policy = depreciation.StubPolicy(stub)
	}

	res, err := depreciation.Generate(params, depreciation.Options{
		StubPolicy: policy,
		AssetCode:  a.Code,
		Accounts:   accounts,
	})
	if err != nil {
		return depreciation.Result{}, fmt.Errorf("asset %s: %w", displayCode(a.Code), err)
	}
	return res, nil
}

// post appends postings to the journal, records the run in the post log and
// commits both when auto_commit is on.
func (r *repo) post(out io.Writer, logger *zap.Logger, command string, postings []model.Posting, message string) error {
	svc := journal.NewService(r.root, r.classes)
	res, err := svc.Post(postings)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Posted %d entries (%d already in journal)\n", len(res.Posted), len(res.Skipped))
	logger.Info("journal updated", zap.Strings("files", res.Files), zap.Int("posted", len(res.Posted)))

	entry := postlog.Entry{
		Timestamp: time.Now(),
		Command:   command,
		Posted:    res.Posted,
		Skipped:   len(res.Skipped),
		Files:     res.Files,
	}

	if len(res.Files) > 0 && r.cfg.Git.AutoCommit && gitops.IsRepo(r.root) {
		paths := res.Files
		if _, err := os.Stat(filepath.Join(r.root, postlog.File)); err == nil {
			paths = append(paths, postlog.File)
		}
		hash, err := gitops.Commit(r.root, message, author(r.cfg), paths...)
		if err != nil {
			return err
		}
		entry.CommitHash = hash
		fmt.Fprintf(out, "Committed %s\n", hash)
	}

	return postlog.Append(r.root, []postlog.Entry{entry})
}

func writeSchedule(out io.Writer, format, currency string, a model.Asset, res depreciation.Result) error {
	f := render.NewFormatter(currency)
	switch format {
	case formatTable:
		return render.Table(out, title(a), res, f)
	case formatCSV:
		return export.WriteSchedule(out, res.Lines)
	case formatJSON:
		return export.WriteJSON(out, export.NewSchedule(a.Code, res))
	case formatJournal:
		return journal.WriteLegs(out, journal.PostingLegs(res.Postings))
	case formatMarkdown:
		_, err := io.WriteString(out, render.Markdown(title(a), res, f))
		return err
	case formatPretty:
		s, err := render.Pretty(render.Markdown(title(a), res, f), "")
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, s)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// writeQuery writes the JSONPath selection of v instead of the full document.
func writeQuery(out io.Writer, v any, path string) error {
	res, err := export.Query(v, path)
	if err != nil {
		return err
	}
	return export.WriteJSON(out, res)
}

func title(a model.Asset) string {
	switch {
	case a.Code != "" && a.Name != "":
		return a.Code + " " + a.Name
	case a.Name != "":
		return a.Name
	default:
		return a.Code
	}
}

func displayCode(code string) string {
	if code == "" {
		return "(unnamed)"
	}
	return code
}

// repoPath is p relative to the repo root when possible.
func (r *repo) repoPath(p string) string {
	if rel, err := filepath.Rel(r.root, p); err == nil {
		return rel
	}
	return p
}
