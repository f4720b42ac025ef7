package schema

import "time"

// CacheStatus represents the status of the response cache.
type CacheStatus struct {
	Backend         string        `json:"backend" yaml:"backend"`
	Connected       bool          `json:"connected" yaml:"connected"`
	TotalEntries    int           `json:"total_entries" yaml:"total_entries"`
	MaxEntries      int           `json:"max_entries" yaml:"max_entries"`
	TTL             time.Duration `json:"ttl" yaml:"ttl"`
	LastEntryTime   time.Time     `json:"last_entry_time" yaml:"last_entry_time"`
	OldestEntryTime time.Time     `json:"oldest_entry_time" yaml:"oldest_entry_time"`
	SizeBytes       int64         `json:"size_bytes" yaml:"size_bytes"`
}
