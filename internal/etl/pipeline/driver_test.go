package pipeline

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/etl/load"
	"dreamhomes-etl/internal/etl/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	recs []source.Record
	idx  int
}

func (s *sliceSource) Read() (source.Record, error) {
	if s.idx >= len(s.recs) {
		return nil, io.EOF
	}
	rec := s.recs[s.idx]
	s.idx++
	return rec, nil
}

func (s *sliceSource) Row() int {
	return s.idx
}

type stubLoader struct {
	failOn map[string]bool
	calls  []string
}

func (l *stubLoader) LoadRow(_ context.Context, rec source.Record) (*load.RowResult, error) {
	code := rec.Get("transaction_id")
	l.calls = append(l.calls, code)
	if l.failOn[code] {
		return nil, fmt.Errorf("%w: boom", load.ErrRowCoreFailed)
	}
	return &load.RowResult{TransactionCode: code}, nil
}

type memCheckpoints struct {
	last  int
	saves []int
}

func (c *memCheckpoints) Last(context.Context) (int, error) { return c.last, nil }
func (c *memCheckpoints) Save(_ context.Context, row int) error {
	c.saves = append(c.saves, row)
	return nil
}
func (c *memCheckpoints) Clear(context.Context) error {
	c.last = 0
	return nil
}

func records(codes ...string) []source.Record {
	recs := make([]source.Record, len(codes))
	for i, code := range codes {
		recs[i] = source.Record{"transaction_id": code}
	}
	return recs
}

func TestRunCountsAndIsolatesFailures(t *testing.T) {
	loader := &stubLoader{failOn: map[string]bool{"TX-2": true}}
	driver := NewDriver(loader, nil, logger.NewNoOpLogger(), Options{SourceFile: "test.csv"})

	summary, err := driver.Run(context.Background(), &sliceSource{recs: records("TX-1", "TX-2", "TX-3")})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)

	// The failed row did not stop the ones behind it.
	assert.Equal(t, []string{"TX-1", "TX-2", "TX-3"}, loader.calls)
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	loader := &stubLoader{}
	checkpoints := &memCheckpoints{last: 2}
	driver := NewDriver(loader, nil, logger.NewNoOpLogger(), Options{
		SourceFile:  "test.csv",
		Resume:      true,
		Checkpoints: checkpoints,
	})

	summary, err := driver.Run(context.Background(), &sliceSource{recs: records("TX-1", "TX-2", "TX-3")})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, []string{"TX-3"}, loader.calls)
	assert.Equal(t, []int{3}, checkpoints.saves)
}

func TestRunSavesCheckpointPerRow(t *testing.T) {
	loader := &stubLoader{failOn: map[string]bool{"TX-1": true}}
	checkpoints := &memCheckpoints{}
	driver := NewDriver(loader, nil, logger.NewNoOpLogger(), Options{
		SourceFile:  "test.csv",
		Checkpoints: checkpoints,
	})

	_, err := driver.Run(context.Background(), &sliceSource{recs: records("TX-1", "TX-2")})
	require.NoError(t, err)

	// Failed rows checkpoint too: a resume must not replay them.
	assert.Equal(t, []int{1, 2}, checkpoints.saves)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := &stubLoader{}
	driver := NewDriver(loader, nil, logger.NewNoOpLogger(), Options{SourceFile: "test.csv"})

	summary, err := driver.Run(ctx, &sliceSource{recs: records("TX-1")})
	require.Error(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, loader.calls)
}

func TestPropertyDocProjection(t *testing.T) {
	rec := source.Record{
		"mls_listing_number":    "MLS-100",
		"property_type":         "Condo",
		"property_address_full": "123 main st Brooklyn NY 11201",
		"bed_bath_info":         "2BR/1.5BA",
		"list_price":            "450000",
		"status_current":        "SOLD",
	}

	doc := propertyDoc(rec, time.Now())

	assert.Equal(t, "MLS-100", doc.MLSNumber)
	assert.Equal(t, "Condominium", doc.PropertyType)
	assert.Equal(t, "123 main st", doc.Address)
	assert.Equal(t, "Brooklyn", doc.City)
	assert.Equal(t, "NY", doc.State)
	assert.Equal(t, "11201", doc.ZipCode)
	assert.Equal(t, float64(450000), doc.ListPrice)
	assert.Equal(t, int64(2), doc.Bedrooms)
	assert.Equal(t, 1.5, doc.Bathrooms)
	assert.Equal(t, "sold", doc.CurrentStatus)
}
