package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientInfo(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		p := ClientInfo("Jane Doe | Software Engineer | Budget 500K-1.2M | Wants parking")

		assert.Equal(t, "Jane Doe", p.Name.String)
		assert.Equal(t, "Software Engineer", p.Profession.String)
		require.True(t, p.BudgetMin.Valid)
		require.True(t, p.BudgetMax.Valid)
		assert.True(t, p.BudgetMin.Decimal.Equal(decimal.NewFromInt(500_000)))
		assert.True(t, p.BudgetMax.Decimal.Equal(decimal.NewFromInt(1_200_000)))
		assert.Equal(t, "Wants parking", p.Notes.String)
	})

	t.Run("plain numeric budget", func(t *testing.T) {
		p := ClientInfo("Bob Ray | Accountant | Budget 2000-3500 | Rental search")

		require.True(t, p.BudgetMin.Valid)
		assert.True(t, p.BudgetMin.Decimal.Equal(decimal.NewFromInt(2000)))
		assert.True(t, p.BudgetMax.Decimal.Equal(decimal.NewFromInt(3500)))
	})

	t.Run("malformed budget leaves bounds null", func(t *testing.T) {
		p := ClientInfo("Jane Doe | Engineer | Budget generous | notes")

		assert.Equal(t, "Jane Doe", p.Name.String)
		assert.False(t, p.BudgetMin.Valid)
		assert.False(t, p.BudgetMax.Valid)
	})

	t.Run("missing budget keyword", func(t *testing.T) {
		p := ClientInfo("Jane Doe | Engineer | 500K-1M | notes")
		assert.False(t, p.BudgetMin.Valid)
	})

	t.Run("name only", func(t *testing.T) {
		p := ClientInfo("Jane Doe")
		assert.Equal(t, "Jane Doe", p.Name.String)
		assert.False(t, p.Profession.Valid)
		assert.False(t, p.Notes.Valid)
	})

	t.Run("blank and nan are empty profiles", func(t *testing.T) {
		assert.False(t, ClientInfo("").Name.Valid)
		assert.False(t, ClientInfo("NaN").Name.Valid)
	})
}

func TestContactDetails(t *testing.T) {
	t.Run("name prefix stripped", func(t *testing.T) {
		email, phone := ContactDetails("Jane Doe: jane@example.com | (555) 111-2222", "Jane Doe")
		assert.Equal(t, "jane@example.com", email.String)
		assert.Equal(t, "(555) 111-2222", phone.String)
	})

	t.Run("no phone segment yields nothing", func(t *testing.T) {
		email, phone := ContactDetails("jane@example.com", "Jane Doe")
		assert.False(t, email.Valid)
		assert.False(t, phone.Valid)
	})

	t.Run("blank", func(t *testing.T) {
		email, phone := ContactDetails("", "Jane Doe")
		assert.False(t, email.Valid)
		assert.False(t, phone.Valid)
	})
}
