// Package mei implements the client side of the Intel Management Engine
// Interface (MEI, also known as HECI): connecting to a client residing
// in the Management Engine firmware through the /dev/mei0 character
// device and exchanging binary messages with it within the limits
// negotiated at connect time.
//
// The firmware clients speak strictly sequential request/response
// conversations, and a Channel mirrors that: it is a synchronous,
// single-owner resource and is not safe for concurrent use. Any failure
// while talking to the device tears the channel down, so a caller never
// holds a half-open handle; the only recovery is connecting afresh.
package mei

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/canonical/go-mei/dirs"
	"github.com/canonical/go-mei/logger"
	"github.com/canonical/go-mei/osutil/epoll"
)

var (
	unixOpen  = unix.Open
	unixClose = unix.Close
	unixRead  = unix.Read
	unixWrite = unix.Write
	osGeteuid = os.Geteuid
)

// waiter is the part of epoll.Waiter the channel drives, split out so
// that tests can substitute wait outcomes.
type waiter interface {
	WaitTimeout(duration time.Duration) (epoll.Readiness, error)
	Close() error
}

var newWaiter = func(fd int) (waiter, error) {
	return epoll.NewWaiter(fd, epoll.Readable)
}

// Channel is an open connection to a single MEI client.
type Channel struct {
	uuid    ClientUUID
	verbose bool

	fd int
	w  waiter

	open    bool
	bufSize uint32
	protVer uint8
}

// Connect opens the MEI device and connects to the firmware client
// identified by uuid.
//
// A non-zero requiredProtocolVersion must match the version reported by
// the firmware, otherwise the connection is torn down again. With
// verbose set, protocol chatter is logged as notices instead of debug
// messages.
func Connect(uuid ClientUUID, requiredProtocolVersion uint8, verbose bool) (*Channel, error) {
	c := &Channel{uuid: uuid, verbose: verbose, fd: -1}

	fd, err := unixOpen(dirs.MeiDevicePath, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		if osGeteuid() != 0 {
			// the device node is root-only on stock systems, so the
			// effective uid is a better hint than the raw errno
			return nil, &DeviceUnavailableError{Path: dirs.MeiDevicePath, Err: ErrPermissionDenied}
		}
		return nil, &DeviceUnavailableError{Path: dirs.MeiDevicePath, Err: err}
	}
	c.fd = fd

	props, err := doConnectClient(fd, uuid)
	if err != nil {
		c.teardown()
		return nil, &ConnectError{UUID: uuid, Err: err}
	}
	c.debugf("connected to MEI client %s: max message length %d, protocol version %d",
		uuid, props.MaxMsgLength, props.ProtocolVersion)

	if requiredProtocolVersion != 0 && props.ProtocolVersion != requiredProtocolVersion {
		c.teardown()
		return nil, &ProtocolVersionError{Required: requiredProtocolVersion, Reported: props.ProtocolVersion}
	}

	w, err := newWaiter(fd)
	if err != nil {
		c.teardown()
		return nil, fmt.Errorf("cannot watch MEI descriptor: %w", err)
	}
	c.w = w

	c.bufSize = props.MaxMsgLength
	c.protVer = props.ProtocolVersion
	c.open = true
	return c, nil
}

// teardown releases all channel resources. Every failure path funnels
// through here so that no partially connected channel escapes.
func (c *Channel) teardown() {
	if c.w != nil {
		c.w.Close()
		c.w = nil
	}
	if c.fd != -1 {
		unixClose(c.fd)
		c.fd = -1
	}
	c.open = false
	c.bufSize = 0
	c.protVer = 0
}

// Close tears the channel down. It is safe to call on an already closed
// channel.
func (c *Channel) Close() error {
	c.teardown()
	return nil
}

// IsOpen reports whether the channel is connected to its client.
func (c *Channel) IsOpen() bool {
	return c.open
}

// BufferSize returns the maximum message length negotiated at connect
// time, in bytes. It is zero when the channel is closed.
func (c *Channel) BufferSize() uint32 {
	return c.bufSize
}

// ProtocolVersion returns the protocol version reported by the firmware
// at connect time. It is zero when the channel is closed.
func (c *Channel) ProtocolVersion() uint8 {
	return c.protVer
}

// Send writes a single message to the firmware client and then waits up
// to timeout for the device to signal that the firmware has processed
// it.
//
// On success it returns the number of bytes written. On any failure,
// including a timeout, the channel is torn down and later operations
// report ErrChannelClosed.
func (c *Channel) Send(p []byte, timeout time.Duration) (int, error) {
	if !c.open {
		return 0, ErrChannelClosed
	}
	c.debugf("sending %d bytes to MEI client %s", len(p), c.uuid)
	n, err := unixWrite(c.fd, p)
	if err != nil {
		c.teardown()
		return 0, &OpError{Op: OpWrite, Err: err}
	}
	ready, err := c.w.WaitTimeout(timeout)
	if err != nil {
		c.teardown()
		return 0, &OpError{Op: OpWriteWait, Err: err}
	}
	if ready&epoll.Readable == 0 {
		c.teardown()
		return 0, ErrWriteTimeout
	}
	c.debugf("write succeeded")
	return n, nil
}

// Receive reads a single message from the firmware client into p and
// returns the number of bytes read. Bytes of p beyond that count are
// not meaningful.
//
// The timeout is accepted for symmetry with Send but is not enforced:
// the read blocks for as long as the firmware takes to produce a
// message. On a read failure the channel is torn down and later
// operations report ErrChannelClosed.
func (c *Channel) Receive(p []byte, timeout time.Duration) (int, error) {
	if !c.open {
		return 0, ErrChannelClosed
	}
	c.debugf("reading up to %d bytes from MEI client %s", len(p), c.uuid)
	n, err := unixRead(c.fd, p)
	if err != nil {
		c.teardown()
		return 0, &OpError{Op: OpRead, Err: err}
	}
	c.debugf("read %d bytes", n)
	return n, nil
}

// debugf records protocol chatter, promoted to notices when the channel
// is verbose.
func (c *Channel) debugf(format string, v ...interface{}) {
	if c.verbose {
		logger.Noticef(format, v...)
	} else {
		logger.Debugf(format, v...)
	}
}
