// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	credentialsCmd = &cobra.Command{
		Use:   "credentials USERNAME [PASSWORD]",
		Short: "Check whether a username and password pair appears in a known breach",
		Long: "Check whether a username and password pair appears in a known breach. " +
			"The password is asked for in a masked prompt when omitted.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 2 {
				password = args[1]
			} else {
				prompt := promptui.Prompt{
					Label: "Password",
					Mask:  '*',
					Validate: func(input string) error {
						if len(input) == 0 {
							return errors.New("please enter a valid password")
						}
						return nil
					},
				}

				var err error
				if password, err = prompt.Run(); err != nil {
					return err
				}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			compromised, err := client.CheckCredentials(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			if compromised {
				fmt.Fprintf(cmd.OutOrStdout(), "Credentials for %s are compromised\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Credentials for %s are not compromised\n", args[0])
			}

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(credentialsCmd)
}
