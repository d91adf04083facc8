package domain

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA    RecordType = "A"
	RecordTypeAAAA RecordType = "AAAA"
)

// Record represents a single DNS record.
type Record struct {
	// ID is the provider-assigned record identifier.
	ID string `json:"id"`

	// Zone is the root domain this record belongs to (e.g. "pickaxe.club").
	Zone string `json:"zone"`

	// Name is the fully-qualified record name as returned by the provider
	// (e.g. "survival.pickaxe.club").
	Name string `json:"name"`

	Type    RecordType `json:"type"`
	Content string     `json:"content"`
	TTL     int        `json:"ttl"`
}

// RecordOpts holds the writable fields of a record.
type RecordOpts struct {
	// Name is the subdomain portion of the record, not including the zone.
	Name string

	Type    RecordType
	Content string

	// TTL is the time-to-live in seconds. Zero means use the provider default.
	TTL int
}
