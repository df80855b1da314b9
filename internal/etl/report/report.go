// internal/etl/report/report.go
package report

import (
	"context"
	"database/sql"
	"fmt"
)

// countedTables are the destination tables summarized after a run, in
// load order.
var countedTables = []string{
	"Office",
	"Employee",
	"Client",
	"ClientRole",
	"PropertyType",
	"Property",
	"PropertyFeature",
	`"Transaction"`,
	"Appointment",
	"Commission",
	"Document",
	"ClientLead",
	"PropertyMedia",
	"Lease",
	"PaymentRecord",
	"MarketingCampaign",
}

// TableCount is one table's row count.
type TableCount struct {
	Table string
	Rows  int64
}

// StatusCount is one property status bucket.
type StatusCount struct {
	Status string
	Count  int64
}

// Report summarizes the destination database after a run.
type Report struct {
	Tables   []TableCount
	Statuses []StatusCount
}

// Build queries row counts for every destination table and the property
// status distribution.
func Build(ctx context.Context, db *sql.DB) (*Report, error) {
	r := &Report{}

	for _, table := range countedTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("count of %s failed: %w", table, err)
		}
		r.Tables = append(r.Tables, TableCount{Table: table, Rows: count})
	}

	rows, err := db.QueryContext(ctx, `
		SELECT current_status, COUNT(*)
		FROM Property
		GROUP BY current_status
		ORDER BY current_status
	`)
	if err != nil {
		return nil, fmt.Errorf("status distribution query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("status distribution scan failed: %w", err)
		}
		r.Statuses = append(r.Statuses, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("status distribution iteration failed: %w", err)
	}

	return r, nil
}
