// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"github.com/manifoldco/promptui"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	passwordCmd = &cobra.Command{
		Use:   "password [PASSWORD]",
		Short: "Check whether a password appears in a known breach",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				return cobra.ExactArgs(1)(cmd, args)
			}

			return cobra.NoArgs(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			if interactive {
				return passwordSession(cmd, client)
			}

			return checkPassword(cmd, client, args[0])
		},
	}
)

func init() {
	passwordCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. Passwords are read from a masked prompt")

	rootCmd.AddCommand(passwordCmd)
}

func passwordSession(cmd *cobra.Command, client *passwordping.Client) error {
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

	log.Info().Msgf("Running interactive session. ^C to exit")
	for {
		password, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
				return nil
			}
			return err
		}

		if err = checkPassword(cmd, client, password); err != nil {
			log.Error().Err(err).Msg("Error during check")
		}
	}
}

func checkPassword(cmd *cobra.Command, client *passwordping.Client, password string) error {
	compromised, err := client.CheckPassword(cmd.Context(), password)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if compromised {
		fmt.Fprintln(out, "Password is compromised")
	} else {
		fmt.Fprintln(out, "Password is not compromised")
	}

	strength := zxcvbn.PasswordStrength(password, nil)
	fmt.Fprintf(out, "Strength: %d/4, crack time %s\n", strength.Score, strength.CrackTimeDisplay)

	return nil
}
