package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/pactsafe/core"
	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// client is built by sharedSetup and shared by every command.
var client *core.Client

// registry collects the client metrics exposed by the mcp command.
var registry = prometheus.NewRegistry()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "pactsafe",
	Short:              "Load clickwrap contract groups and record signer consent.",
	Long:               `PactSafe talks to the consent platform: load contract groups, check which contracts a signer still owes and record what they agreed to.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".pactsafe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("PACTSAFE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("base-url", schema.DefaultBaseURL)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("cache-backend", schema.MemoryBackend)
	viper.SetDefault("cache-max-entries", contract.DefaultCacheMaxEntries)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
}

// sharedSetup resolves configuration and builds the client.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	// 4. Initialize the response cache with validated config.
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheMaxEntries, cfg.CacheTTL); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	// 5. Build the client around the shared cache.
	c, err := core.New(core.Config{
		SiteAccessID: cfg.SiteAccessID,
		BaseURL:      cfg.BaseURL,
		AppName:      cfg.AppName,
		TestMode:     cfg.TestMode,
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
		Workers:      cfg.Workers,
		Cache:        iocache.Manager,
		Logger:       contract.NewLogger(os.Stderr, cfg.Debug),
		Registerer:   registry,
	})
	if err != nil {
		return err
	}
	if client != nil {
		_ = client.Close()
	}
	client = c
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Shutdown waits for in-flight client work and releases the cache.
func Shutdown() {
	if client != nil {
		_ = client.Close()
	}
	iocache.CloseCaching()
}
