// Package outwriter renders client results as tables, JSON, YAML, CSV or Parquet.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteGroup prints a loaded group using the configured output format.
func (ow *OutWriter) WriteGroup(g *schema.Group, cfg *contract.Config, duration time.Duration) error {
	return WriteGroup(g, cfg, duration)
}

// WriteStatus prints a signer's status using the configured output format.
func (ow *OutWriter) WriteStatus(s schema.SignedStatus, cfg *contract.Config, duration time.Duration) error {
	return WriteStatus(s, cfg, duration)
}

// WriteCacheStatus prints the response cache status using the configured output format.
func (ow *OutWriter) WriteCacheStatus(s schema.CacheStatus, cfg *contract.Config) error {
	return WriteCacheStatus(s, cfg)
}

// getMaxTableLinkWidth returns the room left for the link column once the
// fixed columns are laid out.
func getMaxTableLinkWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detected
		}
	}

	// # + ID + Title + Version, plus borders and padding
	available := termWidth - 70
	return min(max(available, 20), 80)
}

func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	mode := "live"
	if cfg.TestMode {
		mode = "test"
	}
	_, err := fmt.Fprintf(w, "Completed in %v against %s (%s mode). Cache backend: %s\n", duration.Round(time.Millisecond), cfg.BaseURL, mode, cfg.CacheBackend)
	return err
}
