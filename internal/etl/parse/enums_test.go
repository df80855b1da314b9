package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapPropertyType(t *testing.T) {
	assert.Equal(t, "Cooperative", MapPropertyType("Co-op"))
	assert.Equal(t, "Single Family Home", MapPropertyType("SFH"))
	assert.Equal(t, "Loft", MapPropertyType("Loft"))
}

func TestMapTransactionStatus(t *testing.T) {
	assert.Equal(t, "completed", MapTransactionStatus("SOLD"))
	assert.Equal(t, "completed", MapTransactionStatus("RENTED"))
	assert.Equal(t, "in_escrow", MapTransactionStatus("PENDING"))
	assert.Equal(t, "pending", MapTransactionStatus("whatever"))
}

func TestMapCampaignType(t *testing.T) {
	assert.Equal(t, "social_media", MapCampaignType("Social Media Campaign"))
	assert.Equal(t, "open_house", MapCampaignType("Community Event"))
	assert.Equal(t, "online", MapCampaignType(""))
	assert.Equal(t, "online", MapCampaignType("Skywriting"))
}
