// Package commands implements the cdrdump CLI's subcommands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cdrdump",
	Short: "Inspect and decode raw CDR/XCDR samples",
	Long: `cdrdump reads a raw wire sample (the 4-byte encapsulation header plus
its payload), reports the dialect, endianness, and extensibility that
header implies, and, for a known type, decodes and prints its fields and
key hash.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}
