package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"log-audit/internal/config"
	"log-audit/internal/defs"
	"log-audit/internal/report"
)

var (
	cfgFile      string
	sectionFlag  string
	rawFlag      bool
	archivesFlag bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logaudit",
	Short: "Audit reporting for proxy access logs",
	Long: `logaudit searches a proxy-style access log, classifies matching lines
against an externally supplied table of pattern definitions, and prints a
chronological, human-readable audit trail.

Examples:
  logaudit user bob
  logaudit ip 10.0.0.23 --section mail
  logaudit accessed 192.168.9.1 --archives
  logaudit ips bob --raw`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: /etc/logaudit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sectionFlag, "section", "s", "", "only report lines matching definitions in this section")
	rootCmd.PersistentFlags().BoolVarP(&rawFlag, "raw", "r", false, "print payloads verbatim instead of rendered messages")
	rootCmd.PersistentFlags().BoolVarP(&archivesFlag, "archives", "a", false, "scan the archived logs instead of the live log")
}

// setup loads config and, when the run needs one, the definition table.
// Raw searches without a section filter run without a table; it is only a
// precondition for classification.
func setup() (*config.Config, *defs.Table, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if rawFlag && sectionFlag == "" {
		return cfg, nil, nil
	}

	table, err := loadTable(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}

func loadTable(cfg *config.Config) (*defs.Table, error) {
	if cfg.DefinitionsURL == "" {
		return nil, fmt.Errorf("no definitions_url configured")
	}
	return defs.Load(cfg.DefinitionsURL, cfg.CachePath)
}

// checkPrivilege refuses to read the system log paths as a regular user up
// front, so the failure is a clear message instead of a permission error
// halfway in. Custom paths are left to normal file permissions.
func checkPrivilege(path string) error {
	if os.Geteuid() == 0 {
		return nil
	}
	if strings.HasPrefix(path, "/var/log/") {
		return fmt.Errorf("reading %s requires root", path)
	}
	return nil
}

func newPrinter() *report.Printer {
	return report.NewColorPrinter(os.Stdout)
}
