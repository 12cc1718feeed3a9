package nic

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all interface operations. Callers are expected
// to match with errors.Is; none of these are fatal to the process.
var (
	// ErrInvalidParameter indicates a nil or out-of-range argument.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotStarted indicates the operation requires at least Started but
	// the interface is Stopped.
	ErrNotStarted = errors.New("interface not started")
	// ErrAlreadyStarted indicates Start was called outside Stopped.
	ErrAlreadyStarted = errors.New("interface already started")
	// ErrDeviceError indicates the operation requires Initialized but the
	// interface is merely Started, or the underlying device failed.
	ErrDeviceError = errors.New("device error")
	// ErrNotReady indicates no received frame is queued.
	ErrNotReady = errors.New("no frame ready")
	// ErrBufferTooSmall indicates the caller buffer cannot hold the frame.
	// Returned wrapped in a BufferTooSmallError carrying the required size.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrUnsupported indicates a capability this layer does not implement.
	ErrUnsupported = errors.New("unsupported")
	// ErrOutOfResources indicates an allocation limit was hit during setup.
	ErrOutOfResources = errors.New("out of resources")
)

// BufferTooSmallError reports the buffer size needed to retry the call.
// The failed call is non-destructive: the frame stays queued.
type BufferTooSmallError struct {
	Required int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("buffer too small: %d bytes required", e.Required)
}

func (e *BufferTooSmallError) Unwrap() error { return ErrBufferTooSmall }
