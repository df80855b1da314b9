package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBedBath(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantBeds  int64
		wantBaths float64
		valid     bool
	}{
		{name: "standard", raw: "2BR/1BA", wantBeds: 2, wantBaths: 1.0, valid: true},
		{name: "studio maps to zero bedrooms", raw: "Studio/1BA", wantBeds: 0, wantBaths: 1.0, valid: true},
		{name: "half bath", raw: "3BR/2.5BA", wantBeds: 3, wantBaths: 2.5, valid: true},
		{name: "garbage", raw: "garbage"},
		{name: "empty", raw: ""},
		{name: "nan cell", raw: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beds, baths := BedBath(tt.raw)
			assert.Equal(t, tt.valid, beds.Valid)
			assert.Equal(t, tt.valid, baths.Valid)
			if tt.valid {
				assert.Equal(t, tt.wantBeds, beds.Int64)
				assert.Equal(t, tt.wantBaths, baths.Float64)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	t.Run("lowercase street before capitalized city", func(t *testing.T) {
		parts := Address("123 main st Brooklyn NY 11201")
		assert.Equal(t, "123 main st", parts.Street.String)
		assert.Equal(t, "Brooklyn", parts.City.String)
		assert.Equal(t, "NY", parts.State.String)
		assert.Equal(t, "11201", parts.Zip.String)
	})

	t.Run("multi word city", func(t *testing.T) {
		parts := Address("456 elm ave New Rochelle NY 10801")
		assert.Equal(t, "456 elm ave", parts.Street.String)
		assert.Equal(t, "New Rochelle", parts.City.String)
	})

	t.Run("too few tokens keeps whole string as street", func(t *testing.T) {
		parts := Address("123 Main")
		assert.Equal(t, "123 Main", parts.Street.String)
		assert.False(t, parts.City.Valid)
		assert.False(t, parts.State.Valid)
		assert.False(t, parts.Zip.Valid)
	})

	t.Run("blank", func(t *testing.T) {
		parts := Address("")
		assert.False(t, parts.Street.Valid)
	})
}

func TestName(t *testing.T) {
	t.Run("first and last", func(t *testing.T) {
		n := Name("John Smith")
		assert.Equal(t, "John", n.First.String)
		assert.Equal(t, "Smith", n.Last.String)
	})

	t.Run("compound last name", func(t *testing.T) {
		n := Name("Maria van der Berg")
		assert.Equal(t, "Maria", n.First.String)
		assert.Equal(t, "van der Berg", n.Last.String)
	})

	t.Run("single token has empty last name", func(t *testing.T) {
		n := Name("Cher")
		assert.Equal(t, "Cher", n.First.String)
		assert.True(t, n.Last.Valid)
		assert.Equal(t, "", n.Last.String)
	})

	t.Run("blank", func(t *testing.T) {
		n := Name("")
		assert.False(t, n.First.Valid)
		assert.False(t, n.Last.Valid)
	})
}
