// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"github.com/passwordping/passwordping-go/pkg/hashing"
	"github.com/spf13/cobra"
	"strings"
)

var (
	hashCmd = &cobra.Command{
		Use:   "hash PASSWORD",
		Short: "Compute a password hash in one of the supported formats",
		Long:  "Compute a password hash locally. No API credentials are needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := hashing.ParsePasswordType(hashType)
			if err != nil {
				return err
			}

			h, err := hashing.Calc(t, args[0], salt)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	names := make([]string, 0, len(hashing.PasswordTypes()))
	for _, t := range hashing.PasswordTypes() {
		names = append(names, t.String())
	}

	hashCmd.Flags().StringVarP(&hashType, "type", "t", "", "Hash format, by name or numeric id (required). One of "+strings.Join(names, ", "))
	hashCmd.MarkFlagRequired("type")
	hashCmd.Flags().StringVarP(&salt, "salt", "s", "", "Salt or setting string, required by the salted formats")

	rootCmd.AddCommand(hashCmd)
}
