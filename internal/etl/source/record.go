// internal/etl/source/record.go
package source

import "strings"

// Record is one source row: a name-keyed mapping of raw field values.
// Absence of a field is representable (missing key, blank cell, or a
// literal NaN from the upstream export) and never an error.
type Record map[string]string

// Get returns the trimmed raw value for a field, with blank and NaN
// cells normalized to the empty string.
func (r Record) Get(field string) string {
	raw := strings.TrimSpace(r[field])
	switch raw {
	case "", "NaN", "nan", "NA", "N/A":
		return ""
	}
	return raw
}

// Has reports whether a field carries a usable value.
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}
