// Package epoll contains a thin wrapper around the epoll(7) facility.
//
// Using epoll from Go is unusual as the language provides facilities that
// normally make using it directly pointless. It is still required for
// descriptors that are opened and read with raw system calls, outside the
// runtime poller, where I/O readiness must be awaited with a timeout.
package epoll

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Readiness is the bit mask of aspects of readiness to monitor with epoll.
type Readiness int

const (
	// Readable indicates readiness for reading (EPOLLIN).
	Readable Readiness = unix.EPOLLIN
	// Writable indicates readiness for writing (EPOLLOUT).
	Writable Readiness = unix.EPOLLOUT
)

// String returns readable representation of the readiness flags.
func (r Readiness) String() string {
	frags := make([]string, 0, 2)
	if r&Readable != 0 {
		frags = append(frags, "Readable")
	}
	if r&Writable != 0 {
		frags = append(frags, "Writable")
	}
	return strings.Join(frags, "|")
}

// Waiter monitors a single file descriptor for I/O readiness.
type Waiter struct {
	epollFd int
	fd      int
}

// NewWaiter creates a waiter observing the given aspects of readiness of
// the given file descriptor.
//
// Please refer to epoll_create1(2) and EPOLL_CTL_ADD for details.
func NewWaiter(fd int, mask Readiness) (*Waiter, error) {
	epollFd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("cannot open epoll file descriptor: %w", err)
	}
	err = unix.EpollCtl(epollFd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: uint32(mask),
		Fd:     int32(fd),
	})
	if err != nil {
		unix.Close(epollFd)
		return nil, fmt.Errorf("cannot register file descriptor: %w", err)
	}
	w := &Waiter{
		epollFd: epollFd,
		fd:      fd,
	}
	runtime.SetFinalizer(w, func(w *Waiter) {
		if w.epollFd != -1 {
			w.Close()
		}
	})
	return w, nil
}

// Close closes the event monitoring descriptor.
//
// The monitored file descriptor itself is not touched.
func (w *Waiter) Close() error {
	runtime.SetFinalizer(w, nil)
	epollFd := w.epollFd
	w.epollFd = -1
	return unix.Close(epollFd)
}

// Fd returns the monitored file descriptor.
func (w *Waiter) Fd() int {
	return w.fd
}

var unixEpollWait = unix.EpollWait

// WaitTimeout blocks and waits with the given timeout for arrival of events
// on the monitored file descriptor.
//
// A zero Readiness return with a nil error indicates that the timeout
// expired before any event arrived. A negative duration disables the
// timeout.
//
// Please refer to epoll_wait(2) for details.
func (w *Waiter) WaitTimeout(duration time.Duration) (Readiness, error) {
	msec := int(duration.Milliseconds())
	if duration < 0 {
		msec = -1
	}
	events := make([]unix.EpollEvent, 1)
	n := 0
	var err error
	for {
		startTs := time.Now()
		n, err = unixEpollWait(w.epollFd, events, msec)
		runtime.KeepAlive(w)
		// unix.EpollWait can return unix.EINTR, which we want to handle by
		// adjusting the timeout (if necessary) and restarting the syscall
		if err == nil {
			break
		} else if err != unix.EINTR {
			return 0, err
		}
		if msec == -1 {
			continue
		}
		elapsed := time.Since(startTs)
		msec -= int(elapsed.Milliseconds())
		if msec <= 0 {
			n = 0
			break
		}
	}
	if n == 0 {
		return 0, nil
	}
	return Readiness(events[0].Events), nil
}

// Wait blocks and waits without a timeout for arrival of events on the
// monitored file descriptor.
func (w *Waiter) Wait() (Readiness, error) {
	duration := time.Duration(-1)
	return w.WaitTimeout(duration)
}
