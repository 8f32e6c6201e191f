// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/passwordping/passwordping-go/internal/batch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"os"
	"path/filepath"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Check a file of passwords, one per line",
		Long: "Check a file of passwords, one per line, with a bounded pool of workers. " +
			"Results name the line number only; passwords are never printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand(cmd)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line, - for stdin (required)")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of concurrent checks. If omitted or less than 1, defaults to twice the number of logical processors of the machine.")
	batchCmd.Flags().IntVar(&rate, "rate", 0, "Maximum requests per second. 0 means unlimited")

	rootCmd.AddCommand(batchCmd)
}

func batchCommand(cmd *cobra.Command) error {
	var in io.Reader = cmd.InOrStdin()
	if inputFile != "-" {
		abs, err := filepath.Abs(inputFile)
		if err != nil {
			return err
		}

		file, err := os.Open(abs)
		if err != nil {
			return err
		}

		defer func(file *os.File) {
			if err := file.Close(); err != nil {
				log.Error().Err(err).Msg("error closing passwords file")
			}
		}(file)
		in = file
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	sum, err := batch.NewRunner(client, cmd.OutOrStdout(), threads, rate).Process(cmd.Context(), in)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.OutOrStdout(), "Checked %d passwords: %d compromised, %d failed\n", sum.Checked, sum.Compromised, sum.Failed)

	return nil
}
