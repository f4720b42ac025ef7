package cmd

import (
	"runtime"

	"github.com/huangsam/pactsafe/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pactsafe.",
	Long: `Display version information including build details.

The client library version is what every activity reports to the
platform as client_version.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("pactsafe CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Library: %s %s\n", schema.ClientLibrary, schema.ClientVersion)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
