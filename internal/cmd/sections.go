package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"log-audit/internal/config"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the section tags known to the definition table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		table, err := loadTable(cfg)
		if err != nil {
			return err
		}

		sections := table.Sections()
		if len(sections) == 0 {
			return newPrinter().Notice("no definitions available")
		}
		for _, s := range sections {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
