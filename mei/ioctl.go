package mei

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/canonical/go-mei/osutil"
)

var doSyscall = func(trap, a1, a2, a3 uintptr) (r1, r2 uintptr, err unix.Errno) {
	return unix.Syscall(trap, a1, a2, a3)
}

type hexBuf []byte

// String returns a string representation of a hexBuf.
func (hb hexBuf) String() string {
	var buf bytes.Buffer
	for i, b := range hb {
		if i%16 == 0 && i > 0 {
			fmt.Fprintf(&buf, "\n")
		}
		fmt.Fprintf(&buf, "%#02x", b)
		if i != len(hb)-1 {
			fmt.Fprintf(&buf, ", ")
		}
	}
	return buf.String()
}

var dumpIoctl bool = osutil.GetenvBool("MEI_DEBUG_DUMP_IOCTL")

// SetIoctlDump enables or disables dumping the buffer and errno of ioctl(2)
// calls.
//
// Returns the previous ioctl dump value.
func SetIoctlDump(value bool) bool {
	prev := dumpIoctl
	dumpIoctl = value
	return prev
}

// Ioctl performs a ioctl(2) on the given file descriptor, passing the
// address of the first byte of buf as the argument.
//
// Requests like IOCTL_MEI_CONNECT_CLIENT rewrite the buffer in place,
// so after a successful call buf holds whatever the kernel left there.
func Ioctl(fd uintptr, req IoctlRequest, buf []byte) error {
	if dumpIoctl {
		log.Printf(">>> ioctl %v (%d bytes) ...\n", req, len(buf))
		log.Printf("%v\n", hexBuf(buf))
	}
	_, _, errno := doSyscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(unsafe.Pointer(&buf[0])))
	if dumpIoctl {
		log.Printf("<<< ioctl %v errno: %v\n", req, errno)
		log.Printf("%v\n", hexBuf(buf))
	}
	if errno != 0 {
		return fmt.Errorf("cannot perform IOCTL request %v: %v", req, unix.Errno(errno))
	}
	return nil
}

// IoctlRequest is the type of ioctl(2) request numbers used by the MEI
// character device.
type IoctlRequest uintptr

// IOCTL_MEI_CONNECT_CLIENT is _IOWR('H', 0x01, struct mei_connect_client_data).
// It asks the driver to connect the file descriptor to the firmware
// client named in the request data.
const IOCTL_MEI_CONNECT_CLIENT IoctlRequest = 0xc0104801

// String returns the string representation of an IoctlRequest.
func (req IoctlRequest) String() string {
	switch req {
	case IOCTL_MEI_CONNECT_CLIENT:
		return "IOCTL_MEI_CONNECT_CLIENT"
	default:
		return fmt.Sprintf("IoctlRequest(%x)", uintptr(req))
	}
}

// ClientProperties describe a connection as granted by the firmware at
// connect time.
//
// This structure corresponds to the kernel type struct mei_client
// described below.
//
//	struct mei_client {
//		__u32 max_msg_length;
//		__u8 protocol_version;
//		__u8 reserved[3];
//	};
type ClientProperties struct {
	// MaxMsgLength is the largest message, in bytes, that can be sent
	// to or received from the client in one operation.
	MaxMsgLength uint32
	// ProtocolVersion is the version of the client protocol spoken by
	// the firmware.
	ProtocolVersion uint8
	// Reserved pads the structure to its kernel size.
	Reserved [3]uint8
}

const sizeofClientProperties = 8

// UnmarshalBinary unmarshals the properties from binary form.
func (p *ClientProperties) UnmarshalBinary(data []byte) error {
	const prefix = "cannot unmarshal MEI client properties"
	if len(data) < sizeofClientProperties {
		return fmt.Errorf("%s: unexpected length %d", prefix, len(data))
	}
	buf := bytes.NewBuffer(data)
	if err := binary.Read(buf, binary.NativeEndian, p); err != nil {
		return fmt.Errorf("%s: %s", prefix, err)
	}
	return nil
}

// sizeofConnectClientData is the size of struct mei_connect_client_data,
// a union of the client UUID passed in and the client properties handed
// back out.
const sizeofConnectClientData = 16

var doConnectClient = connectClient

// connectClient issues IOCTL_MEI_CONNECT_CLIENT on fd for the client
// identified by uuid and returns the connection properties reported by
// the firmware.
func connectClient(fd int, uuid ClientUUID) (*ClientProperties, error) {
	buf := make([]byte, sizeofConnectClientData)
	copy(buf, uuid[:])
	if err := Ioctl(uintptr(fd), IOCTL_MEI_CONNECT_CLIENT, buf); err != nil {
		return nil, err
	}
	var props ClientProperties
	if err := props.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return &props, nil
}
