package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/export"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/pipeline"
	"github.com/sells-group/leadclean/internal/resilience"
	"github.com/sells-group/leadclean/internal/store"
	"github.com/sells-group/leadclean/pkg/notion"
)

type cleanOptions struct {
	in         string
	out        string
	format     string
	nameCol    string
	emailCol   string
	phoneCol   string
	messageCol string
	notion     bool
}

var cleanOpts cleanOptions

// newNotionClient is swapped out in tests.
var newNotionClient = func(c config.NotionConfig) notion.Client {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = c.MaxRetries + 1
	return notion.NewClient(c.Token, notion.WithRateLimit(c.RateLimitRPS), notion.WithRetryConfig(retry))
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean and score a lead export (CSV, TSV, or XLSX)",
	Example: `  leadclean clean --in leads.csv
  leadclean clean --in leads.xlsx --name-col "Full Name" --email-col Mail --phone-col Mobile --format xlsx
  leadclean clean --in leads.csv --message-col Notes --notion`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("clean"); err != nil {
			return err
		}
		if cleanOpts.notion {
			if err := cfg.Validate("push"); err != nil {
				return err
			}
		}
		_, err := runClean(cmd.Context(), cfg, cleanOpts, os.Stdout)
		return err
	},
}

func init() {
	f := cleanCmd.Flags()
	f.StringVar(&cleanOpts.in, "in", "", "input file (.csv, .tsv, .xlsx)")
	f.StringVar(&cleanOpts.out, "out", ".", "output directory")
	f.StringVar(&cleanOpts.format, "format", "csv", "output format: csv, xlsx, or zip")
	f.StringVar(&cleanOpts.nameCol, "name-col", "", "name column (manual mapping needs all three of name/email/phone)")
	f.StringVar(&cleanOpts.emailCol, "email-col", "", "email column")
	f.StringVar(&cleanOpts.phoneCol, "phone-col", "", "phone column")
	f.StringVar(&cleanOpts.messageCol, "message-col", "", "optional free-text column checked for buying intent")
	f.BoolVar(&cleanOpts.notion, "notion", false, "push cleaned leads to the configured Notion database")
	_ = cleanCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(cleanCmd)
}

func (o cleanOptions) override() *model.ColumnAssignment {
	a := model.ColumnAssignment{Name: o.nameCol, Email: o.emailCol, Phone: o.phoneCol, Message: o.messageCol}
	if a == (model.ColumnAssignment{}) {
		return nil
	}
	if !pipeline.IsManual(&a) && (a.Name != "" || a.Email != "" || a.Phone != "") {
		zap.L().Warn("partial column mapping ignored; detecting name, email, and phone",
			zap.String("name_col", a.Name), zap.String("email_col", a.Email), zap.String("phone_col", a.Phone))
	}
	return &a
}

func runClean(ctx context.Context, c *config.Config, opts cleanOptions, out io.Writer) (*pipeline.Result, error) {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	columns, rows, err := fetcher.ReadFile(ctx, opts.in)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(c)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, rows, columns, opts.override())
	if err != nil {
		return nil, eris.Wrapf(err, "clean %s", opts.in)
	}

	// Open history before writing so a bad store leaves no outputs behind.
	st, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	paths, err := export.WriteDir(opts.out, format, res.Cleaned, res.Rejected, res.Summary)
	if err != nil {
		return nil, err
	}

	run := &model.Run{Source: filepath.Base(opts.in), Mode: res.Mode, Assignment: res.Assignment, Summary: res.Summary}
	if store.Record(ctx, st, run) != nil {
		run.ID = ""
	}

	if opts.notion {
		client := newNotionClient(c.Notion)
		if err := notion.CheckDatabase(ctx, client, c.Notion.LeadDB); err != nil {
			return nil, err
		}
		if _, err := notion.PushLeads(ctx, client, c.Notion.LeadDB, res.Cleaned); err != nil {
			return nil, err
		}
	}

	formatAssignment(out, res.Mode, res.Assignment)
	formatSummary(out, res.Summary)
	for _, path := range paths {
		_, _ = fmt.Fprintf(out, "wrote %s\n", path)
	}
	if run.ID != "" {
		_, _ = fmt.Fprintf(out, "run %s\n", run.ID)
	}
	return res, nil
}

func formatAssignment(out io.Writer, mode model.RunMode, a model.ColumnAssignment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Mapping:\t%s\n", mode)
	_, _ = fmt.Fprintf(w, "  name:\t%s\n", orDash(a.Name))
	_, _ = fmt.Fprintf(w, "  email:\t%s\n", orDash(a.Email))
	_, _ = fmt.Fprintf(w, "  phone:\t%s\n", orDash(a.Phone))
	if a.Message != "" {
		_, _ = fmt.Fprintf(w, "  message:\t%s\n", a.Message)
	}
	_ = w.Flush()
}

func formatSummary(out io.Writer, s model.BatchSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Valid:\t%d\n", s.Valid)
	_, _ = fmt.Fprintf(w, "Invalid:\t%d\n", s.Invalid)
	_, _ = fmt.Fprintf(w, "Duplicates:\t%d\n", s.Duplicates)
	for _, t := range model.Tiers {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", t, s.Tiers[t])
	}
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
