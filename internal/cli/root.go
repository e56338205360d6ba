// Package cli wires the command surface: watch (console dashboard),
// serve (web dashboard), init, and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFlag is the persistent --config override.
var configFlag string

// rootCmd is the base command. Running it bare starts the console
// dashboard, the most common invocation.
var rootCmd = &cobra.Command{
	Use:   "sysglance",
	Short: "Live host runtime monitor",
	Long: `sysglance watches one host: CPU, memory, and disk usage, the state of
configured systemd units, and recent journal entries, refreshed on a
fixed cadence.

Run bare for the console dashboard, or 'sysglance serve' for the
browser dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(watchIntervalFlag)
	},
}

// Config returns the --config flag value, empty when unset.
func Config() string {
	return configFlag
}

// Execute runs the CLI and exits non-zero on error. Coded errors print
// their own suggestion line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
}
