// Package errors defines the error taxonomy for the collector.
//
// Four categories exist, each with a different blast radius:
//
// ConfigError: missing credential or invalid setting. Fatal before any
// network call.
//
// APIError: OpenDART returned a non-success status other than "no data".
// Caught per collection unit; the unit's ratios become nil and the batch
// continues.
//
// ResolutionError: a company could not be mapped to a DART corp_code.
// The company's whole period set is skipped, the batch continues.
//
// StorageError: S3 upload failure. A missing bucket gets one automatic
// creation attempt; permission failures downgrade to warnings, anything
// else is fatal for the remaining upload queue.
package errors

import (
	"errors"
	"fmt"
)

// Re-export the stdlib helpers so callers only import one errors package.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// ConfigError reports invalid or missing configuration.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Setting == "" {
		return e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Setting, e.Message)
}

// NewConfigError creates a configuration error for the given setting.
func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}

// APIError reports a non-success OpenDART response envelope.
type APIError struct {
	Status  string // upstream status code, e.g. "020"
	Message string // upstream message
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenDART error [%s]: %s", e.Status, e.Message)
}

// NewAPIError creates an error carrying the upstream status and message.
func NewAPIError(status, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// ResolutionError reports a company that could not be resolved to a
// DART corp_code.
type ResolutionError struct {
	StockCode string
	CorpName  string
	Err       error
}

func (e *ResolutionError) Error() string {
	id := e.StockCode
	if id == "" {
		id = e.CorpName
	}
	if e.Err != nil {
		return fmt.Sprintf("resolve corp code for %s: %v", id, e.Err)
	}
	return fmt.Sprintf("resolve corp code for %s: no match", id)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NewResolutionError creates a resolution error for the given company.
func NewResolutionError(stockCode, corpName string, err error) *ResolutionError {
	return &ResolutionError{StockCode: stockCode, CorpName: corpName, Err: err}
}

// StorageError reports an object-storage failure.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a storage error for the given object key.
func NewStorageError(key string, err error) *StorageError {
	return &StorageError{Key: key, Err: err}
}
