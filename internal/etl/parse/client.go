// internal/etl/parse/client.go
package parse

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientProfile is the structured split of a "name | profession |
// budget | notes" client info field.
type ClientProfile struct {
	Name       sql.NullString
	Profession sql.NullString
	BudgetMin  decimal.NullDecimal
	BudgetMax  decimal.NullDecimal
	Notes      sql.NullString
}

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// ClientInfo splits a client info field into up to four ordered segments.
// The budget segment recognizes "Budget <min>-<max>" with optional K/M
// suffixes applied independently to each bound ("1K-2M" reads literally).
// Malformed budget text leaves both bounds null.
func ClientInfo(raw string) ClientProfile {
	if !present(raw) {
		return ClientProfile{}
	}

	parts := strings.Split(raw, " | ")
	var profile ClientProfile

	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		profile.Name = sql.NullString{String: strings.TrimSpace(parts[0]), Valid: true}
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		profile.Profession = sql.NullString{String: strings.TrimSpace(parts[1]), Valid: true}
	}
	if len(parts) > 2 {
		profile.BudgetMin, profile.BudgetMax = budgetRange(strings.TrimSpace(parts[2]))
	}
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		profile.Notes = sql.NullString{String: strings.TrimSpace(parts[3]), Valid: true}
	}

	return profile
}

func budgetRange(segment string) (min, max decimal.NullDecimal) {
	if segment == "" || !strings.Contains(segment, "Budget") {
		return
	}

	rangeStr := strings.Replace(segment, "Budget ", "", 1)
	if !strings.Contains(rangeStr, "-") {
		return
	}

	bounds := strings.SplitN(rangeStr, "-", 2)
	lo := budgetBound(bounds[0])
	hi := budgetBound(bounds[1])
	if !lo.Valid || !hi.Valid {
		return
	}
	return lo, hi
}

// budgetBound parses one half of a budget range, applying the suffix
// found in that half only.
func budgetBound(raw string) decimal.NullDecimal {
	stripped := strings.NewReplacer("M", "", "K", "").Replace(raw)
	d, err := decimal.NewFromString(strings.TrimSpace(stripped))
	if err != nil {
		return decimal.NullDecimal{}
	}

	if strings.Contains(raw, "M") {
		d = d.Mul(million)
	} else if strings.Contains(raw, "K") {
		d = d.Mul(thousand)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ContactDetails extracts email and phone from a "Name: email | phone"
// contact field. The name prefix, when present, is stripped.
func ContactDetails(raw, name string) (email, phone sql.NullString) {
	if !present(raw) {
		return
	}

	parts := strings.Split(raw, " | ")
	if len(parts) < 2 {
		return
	}

	e := strings.Replace(parts[0], name+": ", "", 1)
	if strings.TrimSpace(e) != "" {
		email = sql.NullString{String: strings.TrimSpace(e), Valid: true}
	}
	if strings.TrimSpace(parts[1]) != "" {
		phone = sql.NullString{String: strings.TrimSpace(parts[1]), Valid: true}
	}
	return
}
