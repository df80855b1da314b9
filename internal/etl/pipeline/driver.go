// internal/etl/pipeline/driver.go
package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	apperrors "dreamhomes-etl/internal/common/errors"
	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/common/metrics"
	"dreamhomes-etl/internal/common/observability"
	"dreamhomes-etl/internal/etl/load"
	"dreamhomes-etl/internal/etl/parse"
	"dreamhomes-etl/internal/etl/source"
	"dreamhomes-etl/internal/models"

	"github.com/google/uuid"
)

// RecordSource yields source records one at a time, io.EOF when drained.
type RecordSource interface {
	Read() (source.Record, error)
	Row() int
}

// RowLoader persists one record.
type RowLoader interface {
	LoadRow(ctx context.Context, rec source.Record) (*load.RowResult, error)
}

// Checkpointer tracks run progress for resume.
type Checkpointer interface {
	Last(ctx context.Context) (int, error)
	Save(ctx context.Context, row int) error
	Clear(ctx context.Context) error
}

// Indexer pushes loaded properties to the search index.
type Indexer interface {
	IndexProperty(ctx context.Context, doc *models.PropertyDoc) error
}

// Validator checks a record before loading; findings are advisory.
type Validator interface {
	Check(rec source.Record) ([]string, error)
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	RunID      uuid.UUID
	SourceFile string
	Total      int
	Loaded     int
	Failed     int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Options tunes a Driver. Checkpoints, Indexer and Validator are
// optional; a nil field disables that behavior.
type Options struct {
	SourceFile  string
	Resume      bool
	RowTimeout  time.Duration
	Checkpoints Checkpointer
	Indexer     Indexer
	Validator   Validator
}

// Driver runs the load sequentially over a record source. Rows are
// independent: a failed row is counted and skipped, the run continues.
type Driver struct {
	loader RowLoader
	opts   Options
	logger logger.Logger
	obs    *observability.Observability
}

func NewDriver(loader RowLoader, obs *observability.Observability, log logger.Logger, opts Options) *Driver {
	return &Driver{
		loader: loader,
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"component": "pipeline"}),
		obs:    obs,
	}
}

// Run drains the source, loading row by row. The returned summary is
// valid even when the run ends early on a source or context error.
func (d *Driver) Run(ctx context.Context, src RecordSource) (*Summary, error) {
	summary := &Summary{
		RunID:      uuid.New(),
		SourceFile: d.opts.SourceFile,
		StartedAt:  time.Now().UTC(),
	}
	defer func() { summary.FinishedAt = time.Now().UTC() }()

	log := d.logger.WithFields(map[string]interface{}{"runId": summary.RunID.String()})

	resumeFrom := 0
	if d.opts.Resume && d.opts.Checkpoints != nil {
		last, err := d.opts.Checkpoints.Last(ctx)
		if err != nil {
			log.Warn("checkpoint read failed, starting from the top", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			resumeFrom = last
		}
	}
	if resumeFrom > 0 {
		log.Info("resuming from checkpoint", map[string]interface{}{"row": resumeFrom})
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, err := src.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, apperrors.NewSourceReadError(d.opts.SourceFile, err)
		}

		row := src.Row()
		if row <= resumeFrom {
			summary.Skipped++
			metrics.RowsSkipped.Inc()
			continue
		}
		summary.Total++

		d.processRow(ctx, log, rec, row, summary)

		if d.opts.Checkpoints != nil {
			if err := d.opts.Checkpoints.Save(ctx, row); err != nil {
				log.Warn("checkpoint save failed", map[string]interface{}{
					"row":   row,
					"error": err.Error(),
				})
			}
		}
	}

	if d.opts.Checkpoints != nil {
		if err := d.opts.Checkpoints.Clear(ctx); err != nil {
			log.Warn("checkpoint clear failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("run complete", map[string]interface{}{
		"total":  summary.Total,
		"loaded": summary.Loaded,
		"failed": summary.Failed,
	})
	return summary, nil
}

func (d *Driver) processRow(ctx context.Context, log logger.Logger, rec source.Record, row int, summary *Summary) {
	rowCtx := ctx
	if d.opts.RowTimeout > 0 {
		var cancel context.CancelFunc
		rowCtx, cancel = context.WithTimeout(ctx, d.opts.RowTimeout)
		defer cancel()
	}

	rowLog := log.WithFields(map[string]interface{}{
		"row":             row,
		"transactionCode": rec.Get("transaction_id"),
	})

	if d.opts.Validator != nil {
		findings, err := d.opts.Validator.Check(rec)
		if err != nil {
			rowLog.Warn("record validation errored", map[string]interface{}{"error": err.Error()})
		}
		for _, finding := range findings {
			rowLog.Warn("record validation finding", map[string]interface{}{"finding": finding})
		}
	}

	start := time.Now()
	result, err := d.loader.LoadRow(rowCtx, rec)
	elapsed := time.Since(start)

	metrics.RowDuration.Observe(elapsed.Seconds())

	if err != nil {
		summary.Failed++
		metrics.RowsFailed.Inc()
		if d.obs != nil {
			d.obs.RecordRowProcessed(ctx, "failed")
			d.obs.RecordRowDuration(ctx, elapsed, "failed")
		}
		if errors.Is(err, load.ErrRowCoreFailed) {
			coreErr := apperrors.NewRowCoreError(rec.Get("transaction_id"), err)
			rowLog.WithError(coreErr).Error("row abandoned, core unit failed", nil)
		} else {
			rowLog.WithError(err).Error("row failed", nil)
		}
		return
	}

	summary.Loaded++
	metrics.RowsLoaded.Inc()
	if d.obs != nil {
		d.obs.RecordRowProcessed(ctx, "loaded")
		d.obs.RecordRowDuration(ctx, elapsed, "loaded")
	}

	if len(result.FailedStages) > 0 {
		rowLog.Warn("row loaded with stage failures", map[string]interface{}{
			"stages": result.FailedStages,
		})
	}

	if d.opts.Indexer != nil {
		doc := propertyDoc(rec, start)
		if err := d.opts.Indexer.IndexProperty(rowCtx, doc); err != nil {
			rowLog.Warn("property indexing failed", map[string]interface{}{
				"mlsNumber": doc.MLSNumber,
				"error":     err.Error(),
			})
		}
	}
}

// propertyDoc projects the record into the search document.
func propertyDoc(rec source.Record, loadedAt time.Time) *models.PropertyDoc {
	addr := parse.Address(rec.Get("property_address_full"))
	bedrooms, bathrooms := parse.BedBath(rec.Get("bed_bath_info"))

	doc := &models.PropertyDoc{
		MLSNumber:     rec.Get("mls_listing_number"),
		PropertyType:  parse.MapPropertyType(rec.Get("property_type")),
		CurrentStatus: parse.MapPropertyStatus(rec.Get("status_current")),
		LoadedAt:      loadedAt.UTC().Format(time.RFC3339),
	}
	if addr.Street.Valid {
		doc.Address = addr.Street.String
	}
	if addr.City.Valid {
		doc.City = addr.City.String
	}
	if addr.State.Valid {
		doc.State = addr.State.String
	}
	if addr.Zip.Valid {
		doc.ZipCode = addr.Zip.String
	}
	if price := parse.Decimal(rec.Get("list_price")); price.Valid {
		doc.ListPrice, _ = price.Decimal.Float64()
	}
	if bedrooms.Valid {
		doc.Bedrooms = bedrooms.Int64
	}
	if bathrooms.Valid {
		doc.Bathrooms = bathrooms.Float64
	}
	return doc
}
