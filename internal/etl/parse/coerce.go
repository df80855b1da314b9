// internal/etl/parse/coerce.go
package parse

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// Safe coercers: every raw field that becomes a typed value routes through
// one of these. They never fail; absent or unparseable input yields the
// invalid null value.

// present reports whether a raw cell carries a usable value. Blank cells
// and the literal NaN spellings of the upstream export count as absent.
func present(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "NaN", "nan", "NA", "N/A":
		return false
	}
	return true
}

// Decimal converts a raw value to an exact decimal.
func Decimal(raw string) decimal.NullDecimal {
	if !present(raw) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Int converts a raw value to an integer. Values like "1200.0" are
// accepted; the export writes whole numbers with decimal points.
func Int(raw string) sql.NullInt64 {
	if !present(raw) {
		return sql.NullInt64{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}
}

// Date converts a raw value to a calendar date. The export mixes formats
// ("11/22/24", "2024-11-22"), so the parse is format-free.
func Date(raw string) sql.NullTime {
	if !present(raw) {
		return sql.NullTime{}
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return sql.NullTime{}
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return sql.NullTime{Time: day, Valid: true}
}
