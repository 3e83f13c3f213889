package engine

import (
	"math"
	"time"
)

// QueryResult is the uniform result shape for a single lookup. Exactly one
// of Records/Error is meaningful: a populated Error means the records are
// absent, and a successful query always carries at least one record value
// (an empty answer is classified as no_records).
type QueryResult struct {
	Domain           string      `json:"domain"`
	RecordType       string      `json:"record_type"`
	ReverseDomain    string      `json:"reverse_domain,omitempty"`
	Nameserver       string      `json:"nameserver"`
	QueryTimeSeconds float64     `json:"query_time_seconds"`
	Records          []string    `json:"records,omitempty"`
	RecordCount      int         `json:"record_count"`
	Error            *Descriptor `json:"error,omitempty"`
}

// OK reports whether the query succeeded.
func (r QueryResult) OK() bool {
	return r.Error == nil
}

// Seconds converts a duration to seconds rounded to 0.1ms precision,
// the resolution used throughout result shapes.
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10000) / 10000
}
