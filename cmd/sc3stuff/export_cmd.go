package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc3stuff/sc3stuff/graph"
	"github.com/sc3stuff/sc3stuff/report"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE OUT.xlsx",
	Short: "Write the event graph of an archive as an XLSX bulletin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []graph.Option
		if cmd.Flags().Changed("event") {
			eventID, _ := cmd.Flags().GetString("event")
			opts = append(opts, graph.WithEventID(eventID))
		}

		c, err := openCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		if _, err := c.Export(cmd.Context(), args[0], args[1], opts...); err != nil {
			return err
		}

		sheets, err := report.ReadBulletin(args[1])
		if err != nil {
			return err
		}
		for _, s := range sheets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\n", s.Name, len(s.Rows))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("event", "", "keep only the event with this publicID")
	rootCmd.AddCommand(exportCmd)
}
