// internal/etl/resolve/resolver.go
package resolve

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/etl/parse"
	"dreamhomes-etl/internal/models"

	"github.com/shopspring/decimal"
)

// Querier is the subset of *sql.Tx / *sql.DB the resolver needs. Passing
// the handle explicitly keeps the resolver free of connection state.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Resolver implements find-or-create for the shared reference entities.
// Each entity is deduplicated by its natural key (office name, employee
// email, client email, type name): lookup first, insert only if absent.
// Two calls with the same key within a run resolve to the same identity.
type Resolver struct {
	logger logger.Logger
}

func New(log logger.Logger) *Resolver {
	return &Resolver{
		logger: log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Office resolves an office by name, inserting with defaulted location
// fields when absent. A missing name resolves to null.
func (r *Resolver) Office(ctx context.Context, q Querier, name, address, phone string) (sql.NullInt64, error) {
	if name == "" {
		return sql.NullInt64{}, nil
	}

	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT office_id FROM Office WHERE office_name = $1
	`, name).Scan(&id)
	if err == nil {
		return sql.NullInt64{Int64: id, Valid: true}, nil
	}
	if err != sql.ErrNoRows {
		return sql.NullInt64{}, fmt.Errorf("office lookup failed: %w", err)
	}

	parts := parse.Address(address)
	office := models.Office{
		OfficeCode: officeCode(name),
		OfficeName: name,
		Address:    orDefault(parts.Street, address),
		City:       orDefault(parts.City, "New York"),
		State:      orDefault(parts.State, "NY"),
		ZipCode:    orDefault(parts.Zip, "10001"),
		Phone:      phone,
	}
	office.Email = fmt.Sprintf("info@%s.com", strings.ToLower(office.OfficeCode))

	err = q.QueryRowContext(ctx, `
		INSERT INTO Office (office_code, office_name, address, city, state, zip_code, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING office_id
	`,
		office.OfficeCode,
		office.OfficeName,
		office.Address,
		office.City,
		office.State,
		office.ZipCode,
		office.Phone,
		office.Email,
	).Scan(&id)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("office insert failed: %w", err)
	}

	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// officeCode derives a short office code from the office name.
func officeCode(name string) string {
	code := strings.ReplaceAll(name, " ", "")
	code = strings.ReplaceAll(code, "Dream", "DH")
	code = strings.ReplaceAll(code, "Homes", "")
	if len(code) > 10 {
		code = code[:10]
	}
	return code
}

// Employee resolves an agent by email when one is present; without an
// email the lookup is skipped and a fresh row is inserted. Missing
// attributes take defaults so the insert always satisfies the schema.
func (r *Resolver) Employee(ctx context.Context, q Querier, name, email, phone string, commissionRate decimal.NullDecimal, officeID sql.NullInt64) (sql.NullInt64, error) {
	if name == "" {
		return sql.NullInt64{}, nil
	}

	var id int64
	if email != "" {
		err := q.QueryRowContext(ctx, `
			SELECT employee_id FROM Employee WHERE email = $1
		`, email).Scan(&id)
		if err == nil {
			return sql.NullInt64{Int64: id, Valid: true}, nil
		}
		if err != sql.ErrNoRows {
			return sql.NullInt64{}, fmt.Errorf("employee lookup failed: %w", err)
		}
	}

	parts := parse.Name(name)
	emp := models.Employee{
		EmployeeCode: "TEMP",
		FirstName:    orDefault(parts.First, "Unknown"),
		LastName:     orDefault(parts.Last, "Agent"),
		Email:        email,
		Phone:        phone,
		JobTitle:     "Agent",
	}
	if emp.Email == "" {
		emp.Email = fmt.Sprintf("%s@dreamhomes.com", strings.ToLower(emp.FirstName))
	}
	if emp.Phone == "" {
		emp.Phone = "(000) 000-0000"
	}
	rate := commissionRate
	if !rate.Valid {
		rate = decimal.NullDecimal{Decimal: decimal.NewFromFloat(3.0), Valid: true}
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO Employee (
			employee_code, first_name, last_name, email, phone,
			job_title, office_id, hire_date, commission_rate
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, CURRENT_DATE, $8
		)
		RETURNING employee_id
	`, emp.EmployeeCode, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.JobTitle, officeID, rate).Scan(&id)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("employee insert failed: %w", err)
	}

	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// Client resolves a client from the compound info field, keyed by the
// email found in the contact details. The role for this transaction is
// recorded through ClientRole with insert-or-ignore semantics.
func (r *Resolver) Client(ctx context.Context, q Querier, info, contactDetails, roleType string) (sql.NullInt64, error) {
	if info == "" {
		return sql.NullInt64{}, nil
	}

	profile := parse.ClientInfo(info)
	if !profile.Name.Valid {
		return sql.NullInt64{}, nil
	}
	name := profile.Name.String

	email, phone := parse.ContactDetails(contactDetails, name)

	var id int64
	if email.Valid {
		err := q.QueryRowContext(ctx, `
			SELECT client_id FROM Client WHERE email = $1
		`, email.String).Scan(&id)
		if err == nil {
			return sql.NullInt64{Int64: id, Valid: true}, nil
		}
		if err != sql.ErrNoRows {
			return sql.NullInt64{}, fmt.Errorf("client lookup failed: %w", err)
		}
	}

	client := models.Client{
		ClientType: "individual",
		FullName:   name,
		Email:      orDefault(email, fmt.Sprintf("%s@email.com", strings.ToLower(strings.ReplaceAll(name, " ", ".")))),
		Phone:      orDefault(phone, "(000) 000-0000"),
	}
	if profile.Notes.Valid {
		client.Notes = profile.Notes.String
	}
	if profile.Profession.Valid {
		client.Notes = fmt.Sprintf("Profession: %s. %s", profile.Profession.String, client.Notes)
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO Client (
			client_type, full_name, email, phone, notes
		) VALUES (
			$1, $2, $3, $4, $5
		)
		RETURNING client_id
	`,
		client.ClientType,
		client.FullName,
		client.Email,
		client.Phone,
		client.Notes,
	).Scan(&id)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("client insert failed: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO ClientRole (client_id, role_type)
		VALUES ($1, $2)
		ON CONFLICT (client_id, role_type) DO NOTHING
	`, id, roleType)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("client role insert failed: %w", err)
	}

	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// PropertyType resolves a property type by its mapped name.
func (r *Resolver) PropertyType(ctx context.Context, q Querier, propType string) (int64, error) {
	pt := models.PropertyType{TypeName: parse.MapPropertyType(propType)}
	pt.Description = fmt.Sprintf("Property type: %s", pt.TypeName)

	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT type_id FROM PropertyType WHERE type_name = $1
	`, pt.TypeName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("property type lookup failed: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO PropertyType (type_name, description)
		VALUES ($1, $2)
		RETURNING type_id
	`, pt.TypeName, pt.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("property type insert failed: %w", err)
	}

	return id, nil
}

func orDefault(s sql.NullString, fallback string) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return fallback
}
