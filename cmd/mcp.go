package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the PactSafe MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents load groups, check
signer status and record activity through standard tools.

With --metrics-addr the client's request and cache metrics are served in
prometheus format on /metrics.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if cfg.MetricsAddr != "" {
			srv := &http.Server{
				Addr:              cfg.MetricsAddr,
				Handler:           metricsHandler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					contract.LogWarn("metrics server stopped", err)
				}
			}()
			defer func() { _ = srv.Close() }()
		}
		return mcp.StartMCPServer(rootCtx, client)
	},
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux
}
