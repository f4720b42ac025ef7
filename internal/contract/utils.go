package contract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Acceptance label constants.
const (
	AcceptedValue    = "Accepted"    // Accepted value
	OutstandingValue = "Outstanding" // Outstanding value
	UnknownValue     = "Unknown"     // Unknown value
)

// Color variables for console output.
var (
	AcceptedColor    = color.New(color.FgGreen)           // AcceptedColor marks signed contracts.
	OutstandingColor = color.New(color.FgRed, color.Bold) // OutstandingColor marks contracts awaiting acceptance.
	UnknownColor     = color.New(color.FgYellow)          // UnknownColor marks contracts with no recorded status.
	HeadingColor     = color.New(color.FgCyan, color.Bold)
)

// GetPlainLabel returns the plain text acceptance label. A nil flag
// means the status endpoint did not report the contract.
func GetPlainLabel(accepted *bool) string {
	switch {
	case accepted == nil:
		return UnknownValue
	case *accepted:
		return AcceptedValue
	default:
		return OutstandingValue
	}
}

// GetColorLabel returns a colored acceptance label for console output (table).
func GetColorLabel(accepted *bool) string {
	text := GetPlainLabel(accepted)

	switch text {
	case AcceptedValue:
		return AcceptedColor.Sprint(text)
	case OutstandingValue:
		return OutstandingColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// NewLogger returns the structured logger used by the client. Debug mode
// logs every request at debug level; otherwise only warnings surface.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncateText shortens s to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseKeyValues parses "key=value" pairs. Keys are trimmed and must be
// non-empty; later pairs override earlier ones.
func ParseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
