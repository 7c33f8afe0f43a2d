package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
)

// ErrServiceCall matches every failure returned by Client.Complete.
var ErrServiceCall = errors.New("service call failed")

// Fault says where a failed call broke. It is for logging only; callers
// treat all faults the same.
type Fault string

const (
	FaultAPI       Fault = "api"
	FaultTimeout   Fault = "timeout"
	FaultTransport Fault = "transport"
	FaultMalformed Fault = "malformed_response"
)

// ServiceCallError wraps the underlying cause of a failed completion.
type ServiceCallError struct {
	Kind Fault
	// StatusCode is set for FaultAPI.
	StatusCode int
	Err        error
}

func (e *ServiceCallError) Error() string { return e.Err.Error() }

func (e *ServiceCallError) Unwrap() error { return e.Err }

func (e *ServiceCallError) Is(target error) bool { return target == ErrServiceCall }

func newServiceCallError(err error) *ServiceCallError {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		return &ServiceCallError{Kind: FaultAPI, StatusCode: apiErr.StatusCode, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &ServiceCallError{Kind: FaultTimeout, Err: err}
	default:
		return &ServiceCallError{Kind: FaultTransport, Err: err}
	}
}
