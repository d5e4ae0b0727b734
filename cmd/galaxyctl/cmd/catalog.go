package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/view"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog <sector.json>",
	Short: "Synthesize a star catalog for a sector file",
	Long: `Read a sector file written by "galaxyctl drill" or the server and print a
freshly synthesized catalog. Every run draws new stellar properties.

Example:
  galaxyctl catalog ./sector/sector.json > catalog.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read sector file: %w", err)
		}

		var rec sector.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to parse sector file: %w", err)
		}

		cat, err := newSessions(view.Viewport{Width: 1, Height: 1}, false).CatalogFromSector(&rec)
		if err != nil {
			return err
		}

		text, err := cat.Text()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
