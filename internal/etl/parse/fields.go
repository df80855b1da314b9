// internal/etl/parse/fields.go
package parse

import (
	"database/sql"
	"regexp"
	"strings"
	"unicode"
)

// Field parsers decode the compound encoded columns of the export into
// structured values. They are pure and total: malformed input yields
// null fields, never an error.

var bedBathPattern = regexp.MustCompile(`(\d+BR|Studio)/(\d+(?:\.\d+)?)BA`)

// BedBath decodes "<N>BR/<M>BA" or "Studio/<M>BA". Studio maps to zero
// bedrooms. No match leaves both fields null.
func BedBath(raw string) (bedrooms sql.NullInt64, bathrooms sql.NullFloat64) {
	if !present(raw) {
		return
	}

	m := bedBathPattern.FindStringSubmatch(raw)
	if m == nil {
		return
	}

	if m[1] == "Studio" {
		bedrooms = sql.NullInt64{Int64: 0, Valid: true}
	} else {
		n := Int(strings.TrimSuffix(m[1], "BR"))
		if !n.Valid {
			return
		}
		bedrooms = n
	}

	if ba := Decimal(m[2]); ba.Valid {
		f, _ := ba.Decimal.Float64()
		bathrooms = sql.NullFloat64{Float64: f, Valid: true}
	}
	return
}

// AddressParts is the structured split of a free-text address line.
type AddressParts struct {
	Street sql.NullString
	City   sql.NullString
	State  sql.NullString
	Zip    sql.NullString
}

// Address splits a free-text "street city state zip" line. The last two
// tokens are taken as state and zip; the city is delimited by scanning
// backward over capitalized tokens. The split is approximate by nature
// and makes no claim of correctness; fewer than four tokens yields the
// whole string as street.
func Address(raw string) AddressParts {
	if !present(raw) {
		return AddressParts{}
	}

	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) < 4 {
		return AddressParts{Street: sql.NullString{String: strings.TrimSpace(raw), Valid: true}}
	}

	zip := parts[len(parts)-1]
	state := parts[len(parts)-2]

	var cityParts, streetParts []string
	foundCity := false

	for i := len(parts) - 3; i >= 0; i-- {
		if !foundCity && startsUpper(parts[i]) {
			cityParts = append([]string{parts[i]}, cityParts...)
			if i == 0 || !startsUpper(parts[i-1]) {
				foundCity = true
			}
		} else {
			streetParts = append([]string{parts[i]}, streetParts...)
		}
	}

	out := AddressParts{
		State: sql.NullString{String: state, Valid: true},
		Zip:   sql.NullString{String: zip, Valid: true},
	}
	if len(streetParts) > 0 {
		out.Street = sql.NullString{String: strings.Join(streetParts, " "), Valid: true}
	}
	if len(cityParts) > 0 {
		out.City = sql.NullString{String: strings.Join(cityParts, " "), Valid: true}
	}
	return out
}

func startsUpper(token string) bool {
	for _, r := range token {
		return unicode.IsUpper(r)
	}
	return false
}

// NameParts is a person name split into first and last.
type NameParts struct {
	First sql.NullString
	Last  sql.NullString
}

// Name takes the first token as the first name and joins the remainder
// as the last name. A single token yields an empty last name.
func Name(raw string) NameParts {
	if !present(raw) {
		return NameParts{}
	}

	parts := strings.Fields(strings.TrimSpace(raw))
	switch {
	case len(parts) >= 2:
		return NameParts{
			First: sql.NullString{String: parts[0], Valid: true},
			Last:  sql.NullString{String: strings.Join(parts[1:], " "), Valid: true},
		}
	case len(parts) == 1:
		return NameParts{
			First: sql.NullString{String: parts[0], Valid: true},
			Last:  sql.NullString{String: "", Valid: true},
		}
	}
	return NameParts{}
}
