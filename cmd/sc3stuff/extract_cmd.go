package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sc3stuff/sc3stuff"
	"github.com/sc3stuff/sc3stuff/format"
	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/parser"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Extract the event graph of an archive and print its picks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		eventID, _ := flags.GetString("event")
		noOrigins, _ := flags.GetBool("no-origin-filter")
		noPicks, _ := flags.GetBool("no-pick-filter")
		asJSON, _ := flags.GetBool("json")
		asTree, _ := flags.GetBool("tree")
		writePath, _ := flags.GetString("write")

		digits := cfg.Extract.TimeDigits
		if flags.Changed("digits") {
			digits, _ = flags.GetInt("digits")
		}

		opts := cfg.ExtractOptions()
		if flags.Changed("event") {
			opts = append(opts, graph.WithEventID(eventID))
		}
		if noOrigins {
			opts = append(opts, graph.WithOriginFilter(false))
		}
		if noPicks {
			opts = append(opts, graph.WithPickFilter(false))
		}

		ep, err := sc3stuff.LoadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		x := graph.Extract(ep, opts...)

		if writePath != "" {
			if err := parser.WriteFile(writePath, x.EventParameters()); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(x)
		}
		if asTree {
			printTree(out, x, digits)
		} else {
			printPicks(out, x, digits)
		}
		printSummary(out, x)
		return nil
	},
}

func init() {
	extractCmd.Flags().String("event", "", "keep only the event with this publicID")
	extractCmd.Flags().Bool("no-origin-filter", false, "keep every origin, not only preferred ones")
	extractCmd.Flags().Bool("no-pick-filter", false, "keep every pick, not only associated ones")
	extractCmd.Flags().Int("digits", 3, "fractional-second digits in printed times")
	extractCmd.Flags().Bool("json", false, "print the extraction as JSON")
	extractCmd.Flags().Bool("tree", false, "print each event with its preferred origin, picks and amplitudes")
	extractCmd.Flags().String("write", "", "write the extracted objects as SC3ML to this path")
	rootCmd.AddCommand(extractCmd)
}

// printPicks writes one fixed-width line per kept pick, ordered by time
// then publicID.
func printPicks(w io.Writer, x *graph.Extraction, digits int) {
	ids := graph.SortedIDs(x.Picks)
	sort.SliceStable(ids, func(i, j int) bool {
		return x.Picks[ids[i]].Time.Value.Before(x.Picks[ids[j]].Time.Value.Time)
	})
	for _, id := range ids {
		p := x.Picks[id]
		mode := "M"
		if graph.IsAutomatic(p) {
			mode = "A"
		}
		phase := p.PhaseHint
		if phase == "" {
			phase = "-"
		}
		fmt.Fprintf(w, "%s  %s  %-4s %s  %s\n",
			format.FixedWidth(p.WaveformID), format.StreamTime(p.Time.Value, digits), phase, mode, p.PublicID)
	}
}

func printSummary(w io.Writer, x *graph.Extraction) {
	kept := x.Kept()
	fmt.Fprintf(w, "events=%d origins=%d picks=%d amplitudes=%d focal_mechanisms=%d discarded=%d\n",
		kept.Events, kept.Origins, kept.Picks, kept.Amplitudes, kept.FocalMechanisms, x.Discarded.Total())
}

// printTree writes each kept event followed by its preferred origin, the
// picks that origin's arrivals reference and their amplitudes.
func printTree(w io.Writer, x *graph.Extraction, digits int) {
	for _, id := range graph.SortedIDs(x.Events) {
		ev := x.Events[id]
		fmt.Fprintln(w, ev.PublicID)
		org, ok := graph.PreferredOrigin(x, ev)
		if !ok {
			fmt.Fprintln(w, "  (no preferred origin)")
			continue
		}
		fmt.Fprintf(w, "  %s  %s  %.3f %.3f %.1fkm\n", org.PublicID,
			format.StreamTime(org.Time.Value, digits), org.Latitude.Value, org.Longitude.Value, org.DepthKm())
		for _, p := range graph.ArrivalPicks(x, org) {
			fmt.Fprintf(w, "    %s  %s\n", format.Dotted(p.WaveformID), p.PublicID)
			for _, a := range graph.PickAmplitudes(x, p.PublicID) {
				value := "-"
				if a.Amplitude != nil {
					value = strconv.FormatFloat(a.Amplitude.Value, 'g', -1, 64)
				}
				fmt.Fprintf(w, "      %s %s  %s\n", a.Type, value, a.PublicID)
			}
		}
	}
}
