package mei

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied reports that the MEI device could not be
	// opened by an unprivileged process.
	ErrPermissionDenied = errors.New("MEI requires root privileges")

	// ErrChannelClosed reports an operation on a channel that has been
	// torn down.
	ErrChannelClosed = errors.New("MEI channel is closed")

	// ErrWriteTimeout reports that the firmware did not accept a
	// message within the allotted time.
	ErrWriteTimeout = errors.New("timeout waiting for MEI write to complete")
)

// DeviceUnavailableError reports that the MEI device node could not be
// opened.
type DeviceUnavailableError struct {
	Path string
	Err  error
}

func (e *DeviceUnavailableError) Error() string {
	return fmt.Sprintf("cannot open MEI device %q: %v", e.Path, e.Err)
}

func (e *DeviceUnavailableError) Unwrap() error {
	return e.Err
}

// ConnectError reports that the driver or the firmware rejected a
// client connection request.
type ConnectError struct {
	UUID ClientUUID
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("cannot connect to MEI client %s: %v", e.UUID, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// ProtocolVersionError reports that the firmware client speaks a
// protocol version other than the one the caller requires.
type ProtocolVersionError struct {
	Required uint8
	Reported uint8
}

func (e *ProtocolVersionError) Error() string {
	return fmt.Sprintf("MEI client protocol version %d does not match required version %d", e.Reported, e.Required)
}

// Channel operations recorded in OpError.
const (
	OpWrite     = "write to"
	OpWriteWait = "wait for write completion on"
	OpRead      = "read from"
)

// OpError reports a failed I/O operation on an open channel. The
// channel is torn down before the error is returned.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("cannot %s MEI channel: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
