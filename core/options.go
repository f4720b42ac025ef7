package core

import "github.com/huangsam/pactsafe/schema"

// CallOption adjusts a single LoadGroup call.
type CallOption func(*callOptions)

type callOptions struct {
	mode schema.CacheMode
}

// FromCache serves the group from the response cache when present and
// stores a fresh response otherwise.
func FromCache() CallOption {
	return func(o *callOptions) { o.mode = schema.CacheUse }
}

// Refresh always fetches live and overwrites the stored response.
func Refresh() CallOption {
	return func(o *callOptions) { o.mode = schema.CacheRefresh }
}

func resolveOptions(opts []CallOption) callOptions {
	o := callOptions{mode: schema.CacheNone}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
