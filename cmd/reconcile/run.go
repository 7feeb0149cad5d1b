package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-reconciler/internal/app"
	"github.com/josh-kwaku/ledger-reconciler/internal/config"
	"github.com/josh-kwaku/ledger-reconciler/internal/logging"
	"github.com/josh-kwaku/ledger-reconciler/internal/reconcile"
)

var errDiscrepanciesFound = errors.New("balance discrepancies found")

type runOptions struct {
	format            string
	onlyDiscrepant    bool
	failOnDiscrepancy bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation and print the result",
		Long: `Reads the roster and every user's successful payments, derives each
balance and prints the discrepancy per user (0 when within tolerance).

Exit status is 1 when the run fails and no result is printed. With
--fail-on-discrepancy, exit status is 2 when any user is out of balance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != outputFormatJSON && opts.format != outputFormatText {
				return fmt.Errorf("unknown --format %q (want %s or %s)", opts.format, outputFormatJSON, outputFormatText)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(os.Stderr, "ledger-reconciler-cli", cfg.LogLevel, cfg.AppEnv)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout())
			defer cancel()

			a, err := app.New(ctx, cfg, app.ConnectOptions{
				Attempts: connectAttempts,
				Delay:    connectDelay,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Engine.Run(ctx)
			if err != nil {
				return err
			}

			return printReport(cmd.OutOrStdout(), report, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", outputFormatJSON, "Output format (json, table)")
	cmd.Flags().BoolVar(&opts.onlyDiscrepant, "only-discrepant", false, "Print only users outside tolerance")
	cmd.Flags().BoolVar(&opts.failOnDiscrepancy, "fail-on-discrepancy", false, "Exit with status 2 when any user is out of balance")

	return cmd
}

func printReport(w io.Writer, report *reconcile.Report, opts runOptions) error {
	entries := report.Entries
	if opts.onlyDiscrepant {
		entries = report.Discrepant()
	}

	var err error
	switch opts.format {
	case outputFormatText:
		err = writeTable(w, report, entries)
	default:
		err = writeJSON(w, report, entries, opts.onlyDiscrepant)
	}
	if err != nil {
		return fmt.Errorf("printReport: %w", err)
	}

	if opts.failOnDiscrepancy && len(report.Discrepant()) > 0 {
		return fmt.Errorf("%d of %d users: %w", len(report.Discrepant()), len(report.Entries), errDiscrepanciesFound)
	}
	return nil
}

// jsonReport carries exactly one of Data (every user) or DiscrepantData
// (only users outside tolerance), so a filtered result is never mistaken
// for the full report.
type jsonReport struct {
	RunID          uuid.UUID               `json:"run_id"`
	Tolerance      json.Number             `json:"tolerance"`
	Users          int                     `json:"users"`
	Discrepant     int                     `json:"discrepant"`
	Data           *map[string]json.Number `json:"data,omitempty"`
	DiscrepantData *map[string]json.Number `json:"discrepant_data,omitempty"`
}

func writeJSON(w io.Writer, report *reconcile.Report, entries []reconcile.Entry, filtered bool) error {
	data := make(map[string]json.Number, len(entries))
	for _, e := range entries {
		data[e.Key] = json.Number(e.Discrepancy.String())
	}

	out := jsonReport{
		RunID:      report.RunID,
		Tolerance:  json.Number(report.Tolerance.String()),
		Users:      len(report.Entries),
		Discrepant: len(report.Discrepant()),
	}
	if filtered {
		out.DiscrepantData = &data
	} else {
		out.Data = &data
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, report *reconcile.Report, entries []reconcile.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "USER_ID\tKEY\tOPENING\tRECEIVED\tSENT\tDERIVED\tSTORED\tDISCREPANCY\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			strconv.FormatInt(e.UserID, 10),
			e.Key,
			e.Opening.String(),
			e.Received.String(),
			e.Sent.String(),
			e.Derived.String(),
			e.Stored.String(),
			e.Discrepancy.String(),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nrun %s: %d users, %d discrepant, tolerance %s\n",
		report.RunID, len(report.Entries), len(report.Discrepant()), report.Tolerance)
	return err
}
