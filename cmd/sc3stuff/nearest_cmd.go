package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var nearestCmd = &cobra.Command{
	Use:     "nearest LAT LON DEPTH",
	Short:   "Find the catalogued origins closest to a hypocentre",
	Example: "  sc3stuff nearest 50.2 6.7 10 -k 5\n  sc3stuff nearest -- -33.0 -71.6 30",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetInt("k")

		var coords [3]float64
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			coords[i] = v
		}

		c, err := openCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		near, err := c.Nearest(cmd.Context(), coords[0], coords[1], coords[2], k)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DIST KM\tORIGIN\tEVENT\tTIME\tLAT\tLON\tDEPTH")
		for _, n := range near {
			fmt.Fprintf(tw, "%.1f\t%s\t%s\t%s\t%.3f\t%.3f\t%s\n",
				n.DistanceKm, n.PublicID, dash(n.EventID), n.Time,
				n.Latitude, n.Longitude, optFloat(n.Depth, 1))
		}
		return tw.Flush()
	},
}

func init() {
	nearestCmd.Flags().IntP("k", "k", 0, "number of origins (0 uses the configured default)")
	rootCmd.AddCommand(nearestCmd)
}
