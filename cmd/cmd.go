// Package cmd defines the command-line interface for pactsafe.
package cmd

import (
	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("site-access-id", "", "Site access identifier issued by the platform")
	rootCmd.PersistentFlags().String("base-url", schema.DefaultBaseURL, "Platform base URL (use "+schema.QABaseURL+" for QA)")
	rootCmd.PersistentFlags().String("app-name", "", "Application name prefixed to the User-Agent header")
	rootCmd.PersistentFlags().Bool("test-mode", false, "Mark activity and status requests as test data")
	rootCmd.PersistentFlags().Bool("debug", false, "Log requests and cache decisions to stderr")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Request timeout (e.g. 30s, 2m)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent background requests")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.MemoryBackend), "Cache backend: memory or none")
	rootCmd.PersistentFlags().Int("cache-max-entries", contract.DefaultCacheMaxEntries, "Maximum number of cached responses")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Lifetime of cached responses (empty = never expire)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	groupCmd.Flags().Bool("from-cache", false, "Serve the group from the response cache when present")

	preloadCmd.Flags().Bool("refresh", false, "Replace cached groups with a live fetch")

	addSignerFlags(sendCmd.Flags())
	sendCmd.Flags().String("page-url", "", "URL of the page the activity happened on")
	sendCmd.Flags().String("page-title", "", "Title of the page the activity happened on")
	sendCmd.Flags().String("referrer", "", "Referring URL")

	addSignerFlags(acceptCmd.Flags())
	acceptCmd.Flags().BoolP("yes", "y", false, "Accept without prompting")

	// Bind all flags of mcpCmd to Viper
	mcpCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9090)")
	if err := viper.BindPFlags(mcpCmd.Flags()); err != nil {
		contract.LogFatal("Error binding mcp flags", err)
	}
}

// addSignerFlags registers the signer attribute flags read by signerFromFlags.
func addSignerFlags(flags *pflag.FlagSet) {
	flags.String("first-name", "", "Signer first name")
	flags.String("last-name", "", "Signer last name")
	flags.String("company-name", "", "Signer company")
	flags.String("title", "", "Signer job title")
	flags.StringSlice("custom", nil, "Extra custom data as key=value (repeatable)")
}
