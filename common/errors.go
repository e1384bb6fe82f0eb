package common

import "fmt"

// ConfigurationError reports an invalid setup-time configuration: a scene
// that references resources that do not exist, a device whose limits are
// incompatible with the fixed GPU layouts, or options that contradict each
// other. Configuration errors are not recoverable at runtime.
type ConfigurationError struct {
	Subject string
	Detail  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Subject, e.Detail)
}

// NewConfigurationError creates a ConfigurationError for the given subject.
//
// Parameters:
//   - subject: the component or resource that is misconfigured
//   - format: printf-style detail message
//   - args: format arguments
//
// Returns:
//   - error: the typed configuration error
func NewConfigurationError(subject, format string, args ...any) error {
	return &ConfigurationError{Subject: subject, Detail: fmt.Sprintf(format, args...)}
}

// AllocationError reports a failed GPU resource allocation (buffer, texture,
// bind group or pipeline creation).
type AllocationError struct {
	Resource string
	Err      error
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("allocation failed for %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("allocation failed for %s", e.Resource)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// NewAllocationError wraps a device-level allocation failure.
//
// Parameters:
//   - resource: label of the resource that failed to allocate
//   - err: the underlying device error, may be nil
//
// Returns:
//   - error: the typed allocation error
func NewAllocationError(resource string, err error) error {
	return &AllocationError{Resource: resource, Err: err}
}

// PoolExhaustedError reports that a descriptor pool cannot satisfy an
// allocation because either its set capacity or one of its per-kind
// capacities has run out. The failure is deterministic: the same sequence of
// allocations against the same pool sizing always fails at the same point.
type PoolExhaustedError struct {
	Kind      string
	Requested uint32
	Remaining uint32
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("descriptor pool exhausted: kind %s requested %d remaining %d",
		e.Kind, e.Requested, e.Remaining)
}

// DeviceOperationError reports a failed GPU device operation outside of
// allocation: surface configuration, queue submission, or a failed
// synchronous map/copy.
type DeviceOperationError struct {
	Op  string
	Err error
}

func (e *DeviceOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("device operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("device operation %s failed", e.Op)
}

func (e *DeviceOperationError) Unwrap() error { return e.Err }

// NewDeviceOperationError wraps a failed device operation.
//
// Parameters:
//   - op: name of the operation that failed
//   - err: the underlying device error, may be nil
//
// Returns:
//   - error: the typed device operation error
func NewDeviceOperationError(op string, err error) error {
	return &DeviceOperationError{Op: op, Err: err}
}
