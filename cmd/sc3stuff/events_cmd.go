package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sc3stuff/sc3stuff/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List catalogued events, latest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		c, err := openCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		events, err := c.Events(cmd.Context(), limit)
		if err != nil {
			return err
		}
		printEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 0, "maximum number of events (0 uses the configured default)")
	rootCmd.AddCommand(eventsCmd)
}

func printEvents(w io.Writer, events []store.EventSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tORIGIN TIME\tLAT\tLON\tDEPTH\tMAG\tDESCRIPTION")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.PublicID, dash(e.OriginTime), optFloat(e.Latitude, 3), optFloat(e.Longitude, 3),
			optFloat(e.Depth, 1), magnitude(e), dash(e.Description))
	}
	tw.Flush()
}

func magnitude(e store.EventSummary) string {
	if e.Magnitude == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f %s", *e.Magnitude, e.MagnitudeType)
}

func optFloat(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
