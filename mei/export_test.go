package mei

import (
	"golang.org/x/sys/unix"

	"github.com/canonical/go-mei/testutil"
)

// Waiter is the readiness-wait interface used by the channel, exported
// for tests that fake wait outcomes.
type Waiter = waiter

var ConnectClient = connectClient

func MockSyscall(syscall func(trap, a1, a2, a3 uintptr) (r1, r2 uintptr, err unix.Errno)) (restore func()) {
	return testutil.Mock(&doSyscall, syscall)
}

func MockConnectClient(f func(fd int, uuid ClientUUID) (*ClientProperties, error)) (restore func()) {
	return testutil.Mock(&doConnectClient, f)
}

func MockOpen(f func(path string, mode int, perm uint32) (int, error)) (restore func()) {
	return testutil.Mock(&unixOpen, f)
}

func MockRead(f func(fd int, p []byte) (int, error)) (restore func()) {
	return testutil.Mock(&unixRead, f)
}

func MockWrite(f func(fd int, p []byte) (int, error)) (restore func()) {
	return testutil.Mock(&unixWrite, f)
}

func MockGeteuid(f func() int) (restore func()) {
	return testutil.Mock(&osGeteuid, f)
}

func MockNewWaiter(f func(fd int) (Waiter, error)) (restore func()) {
	return testutil.Mock(&newWaiter, f)
}
