package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentHistory(t *testing.T) {
	t.Run("mixed records", func(t *testing.T) {
		raw := "2024-01-15 - Initial showing - Jane Doe - Positive | not-a-date - Second visit | 2024-02-01 - Final walkthrough"

		events := AppointmentHistory(raw)
		require.Len(t, events, 2)

		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), events[0].Date)
		assert.Equal(t, "showing", events[0].Type)
		assert.Equal(t, "Jane Doe", events[0].Attendees)
		assert.Equal(t, "Positive", events[0].Outcome)

		assert.Equal(t, "inspection", events[1].Type)
		assert.Empty(t, events[1].Attendees)
	})

	t.Run("record with one segment is skipped", func(t *testing.T) {
		assert.Empty(t, AppointmentHistory("2024-01-15"))
	})

	t.Run("blank", func(t *testing.T) {
		assert.Empty(t, AppointmentHistory(""))
		assert.Empty(t, AppointmentHistory("NaN"))
	})
}

func TestCommission(t *testing.T) {
	t.Run("both halves", func(t *testing.T) {
		split := Commission("Listing: 15525, Selling: 15525")
		require.True(t, split.Listing.Valid)
		require.True(t, split.Selling.Valid)
		assert.True(t, split.Listing.Decimal.Equal(decimal.NewFromInt(15525)))
		assert.True(t, split.Selling.Decimal.Equal(decimal.NewFromInt(15525)))
	})

	t.Run("listing only", func(t *testing.T) {
		split := Commission("Listing: 9000")
		assert.True(t, split.Listing.Valid)
		assert.False(t, split.Selling.Valid)
	})

	t.Run("blank", func(t *testing.T) {
		split := Commission("")
		assert.False(t, split.Listing.Valid)
		assert.False(t, split.Selling.Valid)
	})
}

func TestDocuments(t *testing.T) {
	docs := Documents("Contract, Survey, Title Report")
	require.Len(t, docs, 3)

	assert.Equal(t, "Contract", docs[0].Name)
	assert.Equal(t, "contract", docs[0].Type)
	assert.Equal(t, "other", docs[1].Type)
	assert.Equal(t, "title_report", docs[2].Type)

	assert.Empty(t, Documents(""))
}
