package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revisely/dkt/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.json>",
	Short: "Validate a skill catalog file",
	Long:  "Validates a skill catalog JSON file against the catalog schema and reports what it would install. The serve command loads the same file at startup via config.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("catalog OK: %d skills across %d subjects\n", n, len(catalog.AllSubjects()))
		return nil
	},
}
