package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var Version = "dev"

const (
	exitFailure    = 1
	exitDiscrepant = 2

	connectAttempts = 3
	connectDelay    = time.Second
	defaultTokenTTL = 24 * time.Hour

	outputFormatJSON = "json"
	outputFormatText = "table"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errDiscrepanciesFound) {
			os.Exit(exitDiscrepant)
		}
		os.Exit(exitFailure)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Check stored user balances against the payment ledger",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(tokenCmd())

	return rootCmd
}
