package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"log-audit/internal/audit"
	"log-audit/internal/config"
	"log-audit/internal/logfile"
)

var userCmd = &cobra.Command{
	Use:   "user <name>",
	Short: "Report the activity recorded for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := logfile.ByUser(args[0])
		if err != nil {
			return err
		}
		return runSearch(expr)
	},
}

var ipCmd = &cobra.Command{
	Use:   "ip <addr>",
	Short: "Report the activity originating from an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := logfile.ByAddr(args[0])
		if err != nil {
			return err
		}
		return runSearch(expr)
	},
}

var accessedCmd = &cobra.Command{
	Use:   "accessed <addr>",
	Short: "Report who accessed an address",
	Long: `Reverse lookup: report every line whose request payload mentions the
given address, regardless of which user or source produced it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := logfile.ByAccessed(args[0])
		if err != nil {
			return err
		}
		return runSearch(expr)
	},
}

var ipsCmd = &cobra.Command{
	Use:   "ips <name>",
	Short: "List the source addresses seen for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runIPs,
}

func init() {
	rootCmd.AddCommand(userCmd, ipCmd, accessedCmd, ipsCmd)
}

func runSearch(expr logfile.Expr) error {
	cfg, table, err := setup()
	if err != nil {
		return err
	}
	if !archivesFlag {
		if err := checkPrivilege(cfg.LogPath); err != nil {
			return err
		}
	}

	lines, err := audit.Load(cfg.LogPath, cfg.ArchiveGlob, archivesFlag)
	if err != nil {
		return err
	}

	return audit.Run(lines, audit.Options{
		Expr:    expr,
		Section: sectionFlag,
		Raw:     rawFlag,
		Table:   table,
	}, newPrinter())
}

// runIPs never needs the definition table: listing addresses is a raw
// search over the fixed leading fields.
func runIPs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if !archivesFlag {
		if err := checkPrivilege(cfg.LogPath); err != nil {
			return err
		}
	}

	lines, err := audit.Load(cfg.LogPath, cfg.ArchiveGlob, archivesFlag)
	if err != nil {
		return err
	}

	addrs, err := logfile.ListAddrs(lines, args[0])
	if err != nil {
		return err
	}

	if len(addrs) == 0 {
		return newPrinter().Notice("no results found")
	}
	for _, a := range addrs {
		fmt.Println(a)
	}
	return nil
}
