package common

import (
	"errors"
	"fmt"
)

// ErrRateLimited indicates the upstream market data API is throttling us.
var ErrRateLimited = errors.New("upstream rate limit exceeded")

// NoDataError indicates the upstream returned no data for a symbol after all
// retries and fallback periods.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data found for symbol: %s", e.Symbol)
}

// NewNoDataError creates a NoDataError for the given symbol.
func NewNoDataError(symbol string) error {
	return &NoDataError{Symbol: symbol}
}

// NotFoundError indicates a persisted record does not exist.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNoData reports whether err is a NoDataError.
func IsNoData(err error) bool {
	var target *NoDataError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
