// Package usagecmder provides the usage command for summarizing recorded
// chat exchanges.
package usagecmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/cliui"
	"github.com/papercomputeco/chatgate/pkg/config"
	"github.com/papercomputeco/chatgate/pkg/usage"
	usageutils "github.com/papercomputeco/chatgate/pkg/usage/utils"
)

const usageLongDesc string = `Summarize recorded chat exchanges.

Reads the usage ledger written by "chatgate serve" and prints exchange counts,
token totals and average latency per outcome. The ledger is the PostgreSQL
database at --postgres-dsn, or else the SQLite file at --sqlite. Both default
to the storage.* config keys.

Examples:
  chatgate usage
  chatgate usage --since 168h
  chatgate usage --sqlite ./usage.db --json`

const usageShortDesc string = "Summarize recorded chat exchanges"

type usageCommander struct {
	since       time.Duration
	sqlitePath  string
	postgresDSN string
	jsonOut     bool

	out io.Writer
	now func() time.Time
}

func NewUsageCmd() *cobra.Command {
	cmder := &usageCommander{now: time.Now}

	cmd := &cobra.Command{
		Use:   "usage",
		Short: usageShortDesc,
		Long:  usageLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("sqlite") {
				cmder.sqlitePath = cfg.Storage.SQLitePath
			}
			if !cmd.Flags().Changed("postgres-dsn") {
				cmder.postgresDSN = cfg.Storage.PostgresDSN
			}

			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd)
		},
	}

	cmd.Flags().DurationVar(&cmder.since, "since", 24*time.Hour, "Summarize exchanges newer than this")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to the SQLite usage ledger")
	cmd.Flags().StringVar(&cmder.postgresDSN, "postgres-dsn", "", "PostgreSQL connection string for the usage ledger")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Print the summary as JSON")

	return cmd
}

func (c *usageCommander) run(cmd *cobra.Command) error {
	if c.postgresDSN == "" && c.sqlitePath == "" {
		return errors.New("no usage ledger configured: set --sqlite or --postgres-dsn (or storage.sqlite_path)")
	}
	if c.since <= 0 {
		return fmt.Errorf("--since must be positive, got %s", c.since)
	}

	store, err := usageutils.NewStore(cmd.Context(), &usageutils.NewStoreOpts{
		PostgresDSN: c.postgresDSN,
		SQLitePath:  c.sqlitePath,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Summary(cmd.Context(), c.now().Add(-c.since))
	if err != nil {
		return fmt.Errorf("summarizing usage: %w", err)
	}

	if c.jsonOut {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	c.print(summary)
	return nil
}

func (c *usageCommander) print(s *usage.Summary) {
	fmt.Fprintf(c.out, "\n  %s %s\n\n",
		cliui.HeaderStyle.Render("Usage since"),
		cliui.DimStyle.Render(s.Since.Local().Format(time.RFC3339)),
	)

	if len(s.Outcomes) == 0 {
		fmt.Fprintf(c.out, "  %s No exchanges recorded.\n\n", cliui.DimStyle.Render("●"))
		return
	}

	width := len("outcome")
	for _, o := range s.Outcomes {
		width = max(width, len(o.Outcome))
	}

	fmt.Fprintf(c.out, "  %s\n", cliui.DimStyle.Render(fmt.Sprintf("%-*s  %7s  %9s  %11s  %9s",
		width, "outcome", "count", "prompt", "completion", "avg")))

	for _, o := range s.Outcomes {
		avg := time.Duration(o.AvgDurationMs * float64(time.Millisecond))
		fmt.Fprintf(c.out, "  %s  %7d  %9d  %11d  %9s\n",
			cliui.NameStyle.Render(fmt.Sprintf("%-*s", width, o.Outcome)),
			o.Count,
			o.PromptTokens,
			o.CompletionTokens,
			cliui.FormatDuration(avg),
		)
	}

	prompt, completion := s.Tokens()
	fmt.Fprintf(c.out, "\n  %s %s  %s %s\n\n",
		cliui.KeyStyle.Render("Total:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d exchanges", s.Total())),
		cliui.KeyStyle.Render("Tokens:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d prompt / %d completion", prompt, completion)),
	)
}
