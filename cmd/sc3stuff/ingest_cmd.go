package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sc3stuff/sc3stuff"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Extract archives and store them in the catalogue",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		c, err := openCatalog()
		if err != nil {
			return err
		}
		defer c.Close()

		var opts []sc3stuff.IngestOption
		if force {
			opts = append(opts, sc3stuff.WithForceReparse())
		}

		var failed int
		for _, path := range args {
			res, err := c.Ingest(cmd.Context(), path, opts...)
			if err != nil {
				slog.Error("ingest failed", "file", path, "error", err)
				failed++
				continue
			}
			if res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tunchanged\tdoc=%d\n", path, res.DocumentID)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tdoc=%d\tingest=%s\tkept=%d\tdiscarded=%d\n",
				path, res.DocumentID, res.IngestID, res.Kept.Total(), res.Discarded.Total())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d archives failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().Bool("force", false, "re-ingest even if the file is unchanged")
	rootCmd.AddCommand(ingestCmd)
}
