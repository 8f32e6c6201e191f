// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"github.com/passwordping/passwordping-go/internal/config"
	"github.com/passwordping/passwordping-go/internal/util"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var (
	rootCmd = &cobra.Command{
		Use:   "passwordping [COMMAND] [OPTIONS]",
		Short: "Check passwords and credentials against the PasswordPing breach API",
		Long: "Check passwords, username and password pairs and exposures against the PasswordPing " +
			"credential breach API. Credentials are read from the PP_API_KEY and PP_API_SECRET environment variables.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.ApplyCliSettings(verbose, profile, pprofPort)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "API host, overrides PP_HOST. Defaults to "+passwordping.DefaultHost)
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", passwordping.DefaultTimeout, "Timeout of each API request, overrides PP_TIMEOUT")
	rootCmd.PersistentFlags().IntVar(&retryMax, "retry-max", 0, "Retries on connection errors and 5xx responses, overrides PP_RETRY_MAX")
}

// Execute runs the command line until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func newClient(cmd *cobra.Command) (*passwordping.Client, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	return passwordping.NewClient(cfg.APIKey, cfg.Secret, cfg.Host,
		passwordping.WithTimeout(cfg.Timeout),
		passwordping.WithRetryMax(cfg.RetryMax),
		passwordping.WithExposureCache(cfg.ExposureCache),
		passwordping.WithLogger(log.Logger.With().Str("component", "passwordping").Logger()),
	)
}
