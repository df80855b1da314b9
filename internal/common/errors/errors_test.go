package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	dbErr := NewDatabaseConnectionError(fmt.Errorf("dial tcp: connection refused"))
	assert.Equal(t, ErrCodeDatabaseConnectionFailed, dbErr.Code)
	assert.True(t, dbErr.Retryable)

	srcErr := NewSourceReadError("data.csv", fmt.Errorf("no such file"))
	assert.Equal(t, ErrCodeSourceReadFailed, srcErr.Code)
	assert.Contains(t, srcErr.Details, "data.csv")
	assert.False(t, srcErr.Retryable)

	rowErr := NewRowCoreError("TX-001", fmt.Errorf("property upsert failed"))
	assert.Equal(t, ErrCodeRowCoreFailed, rowErr.Code)
	assert.Equal(t, "TX-001", rowErr.Metadata["transactionCode"])
	assert.False(t, rowErr.Retryable)

	stageErr := NewStageError("lease_payments", fmt.Errorf("deposit insert failed"))
	assert.Equal(t, ErrCodeStageFailed, stageErr.Code)
	assert.Equal(t, "lease_payments", stageErr.Metadata["stage"])
	assert.Contains(t, stageErr.Error(), "STAGE_FAILED")
}
