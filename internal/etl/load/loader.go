// internal/etl/load/loader.go
package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "dreamhomes-etl/internal/common/errors"
	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/common/metrics"
	"dreamhomes-etl/internal/etl/parse"
	"dreamhomes-etl/internal/etl/resolve"
	"dreamhomes-etl/internal/etl/source"
	"dreamhomes-etl/internal/models"

	"github.com/shopspring/decimal"
)

// ErrRowCoreFailed marks a row whose property/transaction unit could not
// be committed. Nothing of that row is persisted.
var ErrRowCoreFailed = errors.New("ROW_CORE_FAILED")

// Dependent-entity stage names. Each runs in its own transaction after
// the core unit commits; a failure rolls back that stage only.
const (
	StageAppointments  = "appointments"
	StageCommission    = "commission"
	StageDocuments     = "documents"
	StageClientLead    = "client_lead"
	StagePropertyMedia = "property_media"
	StageLease         = "lease_payments"
	StageCampaign      = "marketing_campaign"
)

var (
	two  = decimal.NewFromInt(2)
	zero = decimal.Zero
)

// Loader persists one source row across the destination entities. The
// core unit (reference entities, property, features, transaction) commits
// first; the dependent groups follow, each in its own commit boundary, so
// an error-prone optional insert cannot void already-committed core data.
type Loader struct {
	db       *sql.DB
	resolver *resolve.Resolver
	logger   logger.Logger
	now      func() time.Time
}

func NewLoader(db *sql.DB, resolver *resolve.Resolver, log logger.Logger) *Loader {
	return &Loader{
		db:       db,
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"component": "loader"}),
		now:      time.Now,
	}
}

// RowResult reports what one loaded row produced.
type RowResult struct {
	TransactionCode string
	PropertyID      int64
	TransactionID   sql.NullInt64
	FailedStages    []string
}

// coreIDs carries the identities resolved while loading the core unit
// into the dependent stages.
type coreIDs struct {
	office       sql.NullInt64
	listingAgent sql.NullInt64
	sellingAgent sql.NullInt64
	buyer        sql.NullInt64
	seller       sql.NullInt64
	propertyID   int64
	transaction  sql.NullInt64
}

// LoadRow runs the fixed stage sequence for one source row. A core
// failure abandons the row; a dependent stage failure is logged, counted
// and skipped without affecting the row's outcome.
func (l *Loader) LoadRow(ctx context.Context, rec source.Record) (*RowResult, error) {
	code := rec.Get("transaction_id")
	log := l.logger.WithFields(map[string]interface{}{"transactionCode": code})

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin core unit: %v", ErrRowCoreFailed, err)
	}

	ids, err := l.loadCore(ctx, tx, rec)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrRowCoreFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit core unit: %v", ErrRowCoreFailed, err)
	}

	result := &RowResult{
		TransactionCode: code,
		PropertyID:      ids.propertyID,
		TransactionID:   ids.transaction,
	}

	stages := []struct {
		name string
		fn   func(context.Context, *sql.Tx) error
	}{
		{StageAppointments, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertAppointments(ctx, tx, rec, ids)
		}},
		{StageCommission, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertCommission(ctx, tx, rec, ids)
		}},
		{StageDocuments, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertDocuments(ctx, tx, rec, ids)
		}},
		{StageClientLead, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertClientLead(ctx, tx, rec, ids)
		}},
		{StagePropertyMedia, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertPropertyMedia(ctx, tx, ids)
		}},
		{StageLease, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertLease(ctx, tx, rec, ids)
		}},
		{StageCampaign, func(ctx context.Context, tx *sql.Tx) error {
			return l.insertCampaign(ctx, tx, rec, ids)
		}},
	}

	for _, stage := range stages {
		if err := l.runStage(ctx, stage.fn); err != nil {
			log.WithError(apperrors.NewStageError(stage.name, err)).Warn("dependent stage failed", map[string]interface{}{
				"stage": stage.name,
			})
			metrics.StageFailures.WithLabelValues(stage.name).Inc()
			result.FailedStages = append(result.FailedStages, stage.name)
		}
	}

	return result, nil
}

// runStage wraps one dependent group in its own transaction.
func (l *Loader) runStage(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stage: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// loadCore resolves the reference entities and upserts the property and
// transaction rows, all within the caller's transaction.
func (l *Loader) loadCore(ctx context.Context, tx *sql.Tx, rec source.Record) (*coreIDs, error) {
	ids := &coreIDs{}

	var err error
	ids.office, err = l.resolver.Office(ctx, tx,
		rec.Get("listing_office_name"),
		rec.Get("listing_office_address"),
		rec.Get("listing_office_phone"),
	)
	if err != nil {
		return nil, err
	}

	ids.listingAgent, err = l.resolver.Employee(ctx, tx,
		rec.Get("listing_agent_name"),
		rec.Get("listing_agent_email"),
		rec.Get("listing_agent_phone"),
		parse.Decimal(rec.Get("listing_agent_commission_rate")),
		ids.office,
	)
	if err != nil {
		return nil, err
	}

	if rec.Has("selling_agent_name") {
		ids.sellingAgent, err = l.resolver.Employee(ctx, tx,
			rec.Get("selling_agent_name"),
			rec.Get("selling_agent_email"),
			rec.Get("selling_agent_phone"),
			decimal.NullDecimal{Decimal: decimal.NewFromFloat(2.5), Valid: true},
			ids.office,
		)
		if err != nil {
			return nil, err
		}
	}

	// Role slots are selected by transaction type: sale rows carry
	// buyer/seller, rental rows carry renter/landlord.
	txType := rec.Get("transaction_type")
	buyerRole, sellerRole := "renter", "landlord"
	if txType == "sale" {
		buyerRole, sellerRole = "buyer", "seller"
	}

	ids.buyer, err = l.resolver.Client(ctx, tx,
		rec.Get("client_buyer_info"),
		rec.Get("client_contact_details"),
		buyerRole,
	)
	if err != nil {
		return nil, err
	}

	ids.seller, err = l.resolver.Client(ctx, tx,
		rec.Get("client_seller_info"),
		"",
		sellerRole,
	)
	if err != nil {
		return nil, err
	}

	typeID, err := l.resolver.PropertyType(ctx, tx, rec.Get("property_type"))
	if err != nil {
		return nil, err
	}

	addr := parse.Address(rec.Get("property_address_full"))
	bedrooms, bathrooms := parse.BedBath(rec.Get("bed_bath_info"))

	prop := models.Property{
		MLSNumber:     rec.Get("mls_listing_number"),
		Address:       addr.Street,
		City:          addr.City,
		State:         addr.State,
		ZipCode:       addr.Zip,
		ListPrice:     parse.Decimal(rec.Get("list_price")),
		SquareFootage: parse.Int(rec.Get("square_feet")),
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		CurrentStatus: parse.MapPropertyStatus(rec.Get("status_current")),
		DateListed:    parse.Date(rec.Get("listing_date")),
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO Property (
			mls_number, property_type_id, listing_office_id, listing_agent_id,
			address, city, state, zip_code, list_price, square_footage,
			bedrooms, bathrooms, current_status, date_listed
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (mls_number) DO UPDATE SET
			current_status = EXCLUDED.current_status,
			list_price = EXCLUDED.list_price
		RETURNING property_id
	`,
		prop.MLSNumber,
		typeID,
		ids.office,
		ids.listingAgent,
		prop.Address,
		prop.City,
		prop.State,
		prop.ZipCode,
		prop.ListPrice,
		prop.SquareFootage,
		prop.Bedrooms,
		prop.Bathrooms,
		prop.CurrentStatus,
		prop.DateListed,
	).Scan(&ids.propertyID)
	if err != nil {
		return nil, fmt.Errorf("property upsert failed: %w", err)
	}

	if rec.Has("property_features_list") {
		for _, feature := range strings.Split(rec.Get("property_features_list"), ", ") {
			feature = strings.TrimSpace(feature)
			if feature == "" {
				continue
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO PropertyFeature (
					property_id, feature_type, feature_name
				) VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, ids.propertyID, "amenity", feature)
			if err != nil {
				return nil, fmt.Errorf("property feature insert failed: %w", err)
			}
		}
	}

	// The transaction record is meaningless without some amount and
	// date, and the export is legitimately sparse, hence the fallback
	// chains here.
	txAmount := firstDecimal(
		parse.Decimal(rec.Get("final_price")),
		parse.Decimal(rec.Get("offer_amount")),
	)

	offerDate := parse.Date(rec.Get("offer_date"))
	if !offerDate.Valid {
		offerDate = parse.Date(rec.Get("listing_date"))
	}
	if !offerDate.Valid {
		offerDate = sql.NullTime{Time: l.today(), Valid: true}
	}

	offerAmount := firstDecimal(
		parse.Decimal(rec.Get("offer_amount")),
		txAmount,
		parse.Decimal(rec.Get("list_price")),
	)

	if txAmount.Valid {
		var buyerID, sellerID, renterID, landlordID sql.NullInt64
		switch txType {
		case "sale":
			buyerID, sellerID = ids.buyer, ids.seller
		case "rental":
			renterID, landlordID = ids.buyer, ids.seller
		}

		var transactionID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO "Transaction" (
				transaction_code, property_id, listing_agent_id, selling_agent_id,
				buyer_id, seller_id, renter_id, landlord_id,
				transaction_type, status, offer_date, offer_amount,
				accepted_date, transaction_amount, closing_date
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
			)
			ON CONFLICT (transaction_code) DO UPDATE SET
				status = EXCLUDED.status,
				transaction_amount = EXCLUDED.transaction_amount
			RETURNING transaction_id
		`,
			rec.Get("transaction_id"),
			ids.propertyID,
			ids.listingAgent,
			ids.sellingAgent,
			buyerID,
			sellerID,
			renterID,
			landlordID,
			txType,
			parse.MapTransactionStatus(rec.Get("status_current")),
			offerDate,
			offerAmount,
			parse.Date(rec.Get("accepted_date")),
			txAmount,
			parse.Date(rec.Get("closing_date")),
		).Scan(&transactionID)
		if err != nil {
			return nil, fmt.Errorf("transaction upsert failed: %w", err)
		}
		ids.transaction = sql.NullInt64{Int64: transactionID, Valid: true}
	}

	return ids, nil
}

func (l *Loader) insertAppointments(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if !ids.buyer.Valid || !rec.Has("appointment_history") {
		return nil
	}

	for _, event := range parse.AppointmentHistory(rec.Get("appointment_history")) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Appointment (
				agent_id, client_id, property_id, scheduled_datetime,
				appointment_type, status, notes, feedback, created_by
			) VALUES (
				$1, $2, $3, $4, $5, 'completed', $6, $7, $8
			)
		`,
			ids.listingAgent,
			ids.buyer,
			ids.propertyID,
			event.Date,
			event.Type,
			event.Notes,
			event.Outcome,
			ids.listingAgent,
		)
		if err != nil {
			return fmt.Errorf("appointment insert failed: %w", err)
		}
	}
	return nil
}

func (l *Loader) insertCommission(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if !ids.transaction.Valid || !rec.Has("commission_total") {
		return nil
	}

	split := parse.Commission(rec.Get("commission_split_info"))
	total := parse.Decimal(rec.Get("commission_total"))

	// Default split when the encoded field gives no listing amount:
	// even halves with a selling agent, otherwise all to listing.
	listing, selling := split.Listing, split.Selling
	if !listing.Valid && total.Valid {
		if ids.sellingAgent.Valid && selling.Valid {
			half := total.Decimal.Div(two)
			listing = nd(half)
			selling = nd(half)
		} else {
			listing = total
			selling = nd(zero)
		}
	} else if !listing.Valid {
		listing = nd(zero)
	}
	if !selling.Valid {
		selling = nd(zero)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO Commission (
			transaction_id, total_commission_amount, listing_agent_id,
			listing_agent_amount, selling_agent_id, selling_agent_amount,
			payout_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (transaction_id) DO NOTHING
	`,
		ids.transaction,
		total,
		ids.listingAgent,
		listing,
		ids.sellingAgent,
		selling,
		parse.MapPayoutStatus(rec.Get("payout_status")),
	)
	if err != nil {
		return fmt.Errorf("commission insert failed: %w", err)
	}
	return nil
}

func (l *Loader) insertDocuments(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if !ids.transaction.Valid || !rec.Has("documents_required") {
		return nil
	}

	for _, doc := range parse.Documents(rec.Get("documents_required")) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Document (
				transaction_id, property_id, document_type, document_name,
				file_path, uploaded_by, is_required
			) VALUES (
				$1, $2, $3, $4, $5, $6, true
			)
		`,
			ids.transaction,
			ids.propertyID,
			doc.Type,
			doc.Name,
			fmt.Sprintf("/documents/%s.pdf", strings.ReplaceAll(strings.ToLower(doc.Name), " ", "_")),
			ids.listingAgent,
		)
		if err != nil {
			return fmt.Errorf("document insert failed: %w", err)
		}
	}

	// Synthesized appraisal report when the row carries an appraisal.
	if parse.Decimal(rec.Get("appraisal_amount")).Valid && parse.Date(rec.Get("inspection_date")).Valid {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO Document (
				transaction_id, property_id, document_type, document_name,
				file_path, uploaded_by, is_required
			) VALUES (
				$1, $2, 'appraisal', 'Property Appraisal Report',
				$3, $4, true
			)
		`,
			ids.transaction,
			ids.propertyID,
			fmt.Sprintf("/documents/appraisal_%d.pdf", ids.transaction.Int64),
			ids.listingAgent,
		)
		if err != nil {
			return fmt.Errorf("appraisal document insert failed: %w", err)
		}
	}
	return nil
}

func (l *Loader) insertClientLead(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if !rec.Has("client_buyer_info") || !rec.Has("lead_source") {
		return nil
	}

	profile := parse.ClientInfo(rec.Get("client_buyer_info"))
	if !profile.Name.Valid {
		return nil
	}
	name := parse.Name(profile.Name.String)

	// A budget ceiling under 50k suggests a rental search.
	interestType := "buying"
	if profile.BudgetMax.Valid && profile.BudgetMax.Decimal.LessThan(decimal.NewFromInt(50_000)) {
		interestType = "renting"
	}

	first := "Unknown"
	if name.First.Valid && name.First.String != "" {
		first = name.First.String
	}
	last := ""
	if name.Last.Valid {
		last = name.Last.String
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO ClientLead (
			first_name, last_name, lead_source, property_id,
			interest_type, budget_min, budget_max,
			assigned_agent_id, lead_status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, 'converted', $9
		)
	`,
		first,
		last,
		parse.MapLeadSource(rec.Get("lead_source")),
		ids.propertyID,
		interestType,
		profile.BudgetMin,
		profile.BudgetMax,
		ids.listingAgent,
		profile.Notes,
	)
	if err != nil {
		return fmt.Errorf("client lead insert failed: %w", err)
	}
	return nil
}

func (l *Loader) insertPropertyMedia(ctx context.Context, tx *sql.Tx, ids *coreIDs) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO PropertyMedia (
			property_id, media_type, file_url, title,
			is_primary, uploaded_by
		) VALUES (
			$1, 'photo', $2, 'Main Property Photo', true, $3
		)
	`, ids.propertyID, fmt.Sprintf("/media/property_%d/main.jpg", ids.propertyID), ids.listingAgent)
	if err != nil {
		return fmt.Errorf("property photo insert failed: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO PropertyMedia (
			property_id, media_type, file_url, title,
			uploaded_by
		) VALUES (
			$1, 'floor_plan', $2, 'Floor Plan', $3
		)
	`, ids.propertyID, fmt.Sprintf("/media/property_%d/floorplan.pdf", ids.propertyID), ids.listingAgent)
	if err != nil {
		return fmt.Errorf("floor plan insert failed: %w", err)
	}
	return nil
}

func (l *Loader) insertLease(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if rec.Get("transaction_type") != "rental" || !rec.Has("monthly_rent") {
		return nil
	}

	// Lease range comes from the "start - end" field; when absent or
	// unparsable, it defaults to closing date (or today) plus one year.
	var start, end sql.NullTime
	if raw := rec.Get("lease_start_end"); strings.Contains(raw, " - ") {
		bounds := strings.SplitN(raw, " - ", 2)
		s, e := parse.Date(bounds[0]), parse.Date(bounds[1])
		if s.Valid && e.Valid {
			start, end = s, e
		}
	}
	if !start.Valid {
		start = parse.Date(rec.Get("closing_date"))
		if !start.Valid {
			start = sql.NullTime{Time: l.today(), Valid: true}
		}
		end = sql.NullTime{Time: start.Time.AddDate(1, 0, 0), Valid: true}
	}

	leaseNumber := fmt.Sprintf("LEASE-%s", rec.Get("transaction_id"))

	var leaseID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO Lease (
			lease_number, property_id, transaction_id, renter_id, landlord_id,
			lease_start_date, lease_end_date, monthly_rent, security_deposit,
			lease_terms, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (lease_number) DO NOTHING
		RETURNING lease_id
	`,
		leaseNumber,
		ids.propertyID,
		ids.transaction,
		ids.buyer,
		ids.seller,
		start,
		end,
		parse.Decimal(rec.Get("monthly_rent")),
		parse.Decimal(rec.Get("security_deposit")),
		rec.Get("lease_terms"),
		ids.listingAgent,
	).Scan(&leaseID)
	if err == sql.ErrNoRows {
		// Lease already present from an earlier run; nothing to pay.
		return nil
	}
	if err != nil {
		return fmt.Errorf("lease insert failed: %w", err)
	}

	if deposit := parse.Decimal(rec.Get("security_deposit")); deposit.Valid {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO PaymentRecord (
				lease_id, payment_date, amount, payment_type,
				payment_method, status, notes
			) VALUES (
				$1, CURRENT_DATE, $2, 'deposit', 'bank_transfer', 'completed',
				'Security deposit payment'
			)
		`, leaseID, deposit)
		if err != nil {
			return fmt.Errorf("deposit payment insert failed: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO PaymentRecord (
			lease_id, payment_date, amount, payment_type,
			payment_method, status, notes
		) VALUES (
			$1, CURRENT_DATE, $2, 'rent', 'bank_transfer', 'completed',
			'First month rent payment'
		)
	`, leaseID, parse.Decimal(rec.Get("monthly_rent")))
	if err != nil {
		return fmt.Errorf("rent payment insert failed: %w", err)
	}
	return nil
}

func (l *Loader) insertCampaign(ctx context.Context, tx *sql.Tx, rec source.Record, ids *coreIDs) error {
	if !rec.Has("campaign_type") || !rec.Has("marketing_spend") {
		return nil
	}

	campaignName := fmt.Sprintf("%s - %s", rec.Get("campaign_type"), rec.Get("mls_listing_number"))
	spend := parse.Decimal(rec.Get("marketing_spend"))

	_, err := tx.ExecContext(ctx, `
		INSERT INTO MarketingCampaign (
			property_id, campaign_name, campaign_type, start_date,
			budget, actual_cost, status, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, 'completed', $7
		)
		ON CONFLICT DO NOTHING
	`,
		ids.propertyID,
		campaignName,
		parse.MapCampaignType(rec.Get("campaign_type")),
		parse.Date(rec.Get("listing_date")),
		spend,
		spend,
		ids.listingAgent,
	)
	if err != nil {
		return fmt.Errorf("marketing campaign insert failed: %w", err)
	}
	return nil
}

func (l *Loader) today() time.Time {
	now := l.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func firstDecimal(vals ...decimal.NullDecimal) decimal.NullDecimal {
	for _, v := range vals {
		if v.Valid {
			return v
		}
	}
	return decimal.NullDecimal{}
}

func nd(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
