// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"github.com/jfcg/sorty/v2"
	"github.com/passwordping/passwordping-go/pkg/passwordping"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"strings"
	"time"
)

var (
	exposuresCmd = &cobra.Command{
		Use:   "exposures USERNAME",
		Short: "List the breaches a username appears in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.GetExposuresForUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ids := res.Exposures
			if sorted {
				ids = append([]string{}, ids...)
				sorty.SortSlice(ids)
			}

			p := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			p.Fprintf(out, "Found %d exposures for %s\n", res.Count, args[0])

			for _, id := range ids {
				if !details {
					fmt.Fprintln(out, id)
					continue
				}

				d, err := client.GetExposureDetails(cmd.Context(), id)
				if err != nil {
					return err
				}
				if d == nil {
					fmt.Fprintf(out, "%s (details not found)\n", id)
					continue
				}
				p.Fprintf(out, "%s %s, %s, %d entries\n", id, d.Title, formatDate(d.Date), d.Entries)
			}

			return nil
		},
	}

	exposureCmd = &cobra.Command{
		Use:   "exposure ID",
		Short: "Show the details of a single breach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			d, err := client.GetExposureDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if d == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Exposure %s not found\n", args[0])
				return nil
			}

			printExposure(cmd.OutOrStdout(), d)
			return nil
		},
	}
)

func init() {
	exposuresCmd.Flags().BoolVarP(&details, "details", "d", false, "Fetch and print the details of every exposure")
	exposuresCmd.Flags().BoolVar(&sorted, "sort", false, "Print exposure ids sorted instead of in API order")

	rootCmd.AddCommand(exposuresCmd)
	rootCmd.AddCommand(exposureCmd)
}

func printExposure(out io.Writer, d *passwordping.ExposureDetails) {
	p := message.NewPrinter(language.English)

	p.Fprintf(out, "ID:               %s\n", d.ID)
	p.Fprintf(out, "Title:            %s\n", d.Title)
	p.Fprintf(out, "Category:         %s\n", d.Category)
	p.Fprintf(out, "Date:             %s\n", formatDate(d.Date))
	p.Fprintf(out, "Date added:       %s\n", d.DateAdded.Format(time.RFC3339))
	p.Fprintf(out, "Password type:    %s\n", d.PasswordType)
	p.Fprintf(out, "Exposed data:     %s\n", strings.Join(d.ExposedData, ", "))
	p.Fprintf(out, "Entries:          %d\n", d.Entries)
	p.Fprintf(out, "Domains affected: %d\n", d.DomainsAffected)
	p.Fprintf(out, "Sources:          %s\n", strings.Join(d.SourceURLs, ", "))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "unknown date"
	}
	return t.Format("2006-01-02")
}
