package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/schema"
)

// WriteCacheStatus outputs the cache status. CSV and Parquet fall back to
// the text form since a status is a single record.
func WriteCacheStatus(s schema.CacheStatus, cfg *contract.Config) error {
	var write func(io.Writer) error
	switch cfg.Output {
	case schema.JSONOut:
		write = func(w io.Writer) error { return writeJSON(w, s) }
	case schema.YAMLOut:
		write = func(w io.Writer) error { return writeYAML(w, s) }
	default:
		write = func(w io.Writer) error {
			iocache.PrintCacheStatus(w, s)
			return nil
		}
	}
	if err := writeWithFile(cfg.OutputFile, write, "Wrote cache status"); err != nil {
		return fmt.Errorf("error writing cache status: %w", err)
	}
	return nil
}
