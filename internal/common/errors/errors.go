// Package errors provides standardized error handling for the load pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeSourceReadFailed         ErrorCode = "SOURCE_READ_FAILED"
	ErrCodeRowCoreFailed            ErrorCode = "ROW_CORE_FAILED"
	ErrCodeStageFailed              ErrorCode = "STAGE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewDatabaseConnectionError creates a fatal connection error. The pipeline
// surfaces this to the caller immediately and never attempts per-row recovery.
func NewDatabaseConnectionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceReadError creates a fatal source-file error.
func NewSourceReadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceReadFailed,
		Message:   "Failed to read source records",
		Details:   fmt.Sprintf("file %s: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRowCoreError marks the property/transaction unit of one row as failed.
// The row is abandoned; the run continues with the next row.
func NewRowCoreError(rowCode string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRowCoreFailed,
		Message:   "Core property/transaction unit failed",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"transactionCode": rowCode},
		Timestamp: time.Now().UTC(),
	}
}

// NewStageError marks one dependent-entity group as failed. Only that
// group's writes are rolled back; the row itself stays loaded.
func NewStageError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStageFailed,
		Message:   fmt.Sprintf("Dependent stage %q failed", stage),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
	}
}
