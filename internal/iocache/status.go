package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/pactsafe/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d / %d\n", status.TotalEntries, status.MaxEntries)
	if status.TTL > 0 {
		_, _ = fmt.Fprintf(w, "Entry TTL: %s\n", status.TTL)
	} else {
		_, _ = fmt.Fprintln(w, "Entry TTL: none")
	}
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Stored Size: %d bytes\n", status.SizeBytes)
}
