package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ActivityEvent represents the kind of activity reported for a signer.
	ActivityEvent string

	// CacheBackend represents the backend used for response caching.
	CacheBackend string

	// CacheMode controls how a GET request interacts with the response cache.
	CacheMode int
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All activity events supported by the activity endpoint.
const (
	Agreed    ActivityEvent = "agreed"
	Displayed ActivityEvent = "displayed"
	Updated   ActivityEvent = "updated"
	Visited   ActivityEvent = "visited"
	Sent      ActivityEvent = "sent"
	Disagreed ActivityEvent = "disagreed"
)

// All cache backends supported.
const (
	MemoryBackend CacheBackend = "memory" // default
	NoneBackend   CacheBackend = "none"
)

// Cache modes for GET requests.
const (
	CacheNone    CacheMode = iota // skip the cache entirely
	CacheUse                      // lookup first, store on success
	CacheRefresh                  // skip lookup, store on success
)

// Remote endpoints and hosts.
const (
	DefaultBaseURL = "https://pactsafe.io"
	QABaseURL      = "https://qa.pactsafe.io"

	GroupPath    = "/load/json"
	ActivityPath = "/send"
	StatusPath   = "/latest"
)

// Client identification sent as connection data.
const (
	ClientLibrary = "PactSafe Go SDK"
	ClientVersion = "1.0.1"
)

// ContractsPlaceholder is replaced inside acceptance language templates.
const ContractsPlaceholder = "{{contracts}}"

// DefaultAcceptanceLanguage is used when a group carries no template.
const DefaultAcceptanceLanguage = "By clicking below, you agree to our " + ContractsPlaceholder

// ChangeSummaryPrefix starts the summary of updated contracts.
const ChangeSummaryPrefix = "We've updated the following: "

// AllActivityEvents returns a list of all supported activity events.
var AllActivityEvents = []ActivityEvent{Agreed, Displayed, Updated, Visited, Sent, Disagreed}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidActivityEvents lists all valid activity events.
var ValidActivityEvents = map[ActivityEvent]struct{}{
	Agreed:    {},
	Displayed: {},
	Updated:   {},
	Visited:   {},
	Sent:      {},
	Disagreed: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	MemoryBackend: {},
	NoneBackend:   {},
}

// String returns the cache mode name used in logs and metrics.
func (m CacheMode) String() string {
	switch m {
	case CacheUse:
		return "use"
	case CacheRefresh:
		return "refresh"
	default:
		return "none"
	}
}
