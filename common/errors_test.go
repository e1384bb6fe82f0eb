package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorAs(t *testing.T) {
	err := NewConfigurationError("scene", "object %d references missing model %d", 3, 7)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "scene", cfgErr.Subject)
	assert.Contains(t, err.Error(), "missing model 7")
}

func TestAllocationErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("out of device memory")
	err := NewAllocationError("object buffer", cause)

	var allocErr *AllocationError
	assert.True(t, errors.As(err, &allocErr))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "object buffer")
}

func TestPoolExhaustedError(t *testing.T) {
	err := &PoolExhaustedError{Kind: "storage-buffer", Requested: 3, Remaining: 1}

	var poolErr *PoolExhaustedError
	assert.True(t, errors.As(error(err), &poolErr))
	assert.Contains(t, err.Error(), "storage-buffer")
}

func TestDeviceOperationErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("surface lost")
	err := NewDeviceOperationError("configure surface", cause)
	assert.ErrorIs(t, err, cause)

	var devErr *DeviceOperationError
	assert.True(t, errors.As(err, &devErr))
	assert.Equal(t, "configure surface", devErr.Op)
}
