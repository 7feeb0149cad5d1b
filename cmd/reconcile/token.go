package main

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-reconciler/internal/auth"
)

type tokenConfig struct {
	Secret string `env:"OPERATOR_JWT_SECRET,required,notEmpty"`
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the HTTP API",
		Long:  "Signs a bearer token with OPERATOR_JWT_SECRET that allows triggering reconciliation runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}

			cfg, err := env.ParseAs[tokenConfig]()
			if err != nil {
				return fmt.Errorf("token: %w", err)
			}

			token, err := auth.GenerateToken(subject, cfg.Secret, ttl)
			if err != nil {
				return fmt.Errorf("token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator name recorded in request logs")
	cmd.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
