package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/export"
	"github.com/sells-group/leadclean/internal/extract"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/scorer"
	"github.com/sells-group/leadclean/internal/store"
)

var (
	messageIn  string
	messageOut string
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Extract and score leads from free-text messages, one per paragraph",
	Example: `  leadclean message --in enquiries.txt --out leads.csv
  pbpaste | leadclean message --in -`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("message"); err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if messageOut != "" && messageOut != "-" {
			f, err := os.Create(messageOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", messageOut)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		_, err := runMessage(cmd.Context(), cfg, messageIn, os.Stdin, out)
		return err
	},
}

func init() {
	messageCmd.Flags().StringVar(&messageIn, "in", "-", "text file, or - for stdin")
	messageCmd.Flags().StringVar(&messageOut, "out", "-", "CSV output file, or - for stdout")
	rootCmd.AddCommand(messageCmd)
}

func runMessage(ctx context.Context, c *config.Config, in string, stdin io.Reader, out io.Writer) (*extract.Result, error) {
	text, err := fetcher.ReadText(in, stdin)
	if err != nil {
		return nil, err
	}

	res, err := extract.Process(text, scorer.New(c.Scoring))
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	if err := export.WriteMessagesCSV(out, res.Leads, res.Messages); err != nil {
		return nil, err
	}
	source := in
	if source == "-" {
		source = "stdin"
	}
	run := &model.Run{Source: source, Mode: model.RunModeMessage, Summary: res.Summary}
	_ = store.Record(ctx, st, run)
	return res, nil
}
