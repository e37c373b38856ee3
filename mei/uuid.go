package mei

import (
	"encoding/hex"
	"fmt"
)

// ClientUUID identifies a client residing in the Management Engine
// firmware.
//
// The in-memory layout matches the kernel's uuid_le type, which is what
// the connect ioctl consumes: the first three groups are stored
// little-endian, the remaining bytes in order.
type ClientUUID [16]byte

// UUIDLE assembles a ClientUUID from the grouped notation used by
// UUID_LE definitions in kernel headers.
func UUIDLE(a uint32, b, c uint16, d0, d1, d2, d3, d4, d5, d6, d7 uint8) ClientUUID {
	return ClientUUID{
		byte(a), byte(a >> 8), byte(a >> 16), byte(a >> 24),
		byte(b), byte(b >> 8),
		byte(c), byte(c >> 8),
		d0, d1, d2, d3, d4, d5, d6, d7,
	}
}

// String returns the usual 8-4-4-4-12 textual form of the UUID.
func (u ClientUUID) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		u[3], u[2], u[1], u[0],
		u[5], u[4],
		u[7], u[6],
		u[8], u[9],
		u[10], u[11], u[12], u[13], u[14], u[15])
}

// ParseClientUUID parses the 8-4-4-4-12 textual form of a client UUID.
func ParseClientUUID(s string) (ClientUUID, error) {
	var uuid ClientUUID
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return uuid, fmt.Errorf("cannot parse MEI client UUID %q", s)
	}
	var raw [16]byte
	hexstr := s[:8] + s[9:13] + s[14:18] + s[19:23] + s[24:]
	if _, err := hex.Decode(raw[:], []byte(hexstr)); err != nil {
		return uuid, fmt.Errorf("cannot parse MEI client UUID %q", s)
	}
	uuid = ClientUUID{
		raw[3], raw[2], raw[1], raw[0],
		raw[5], raw[4],
		raw[7], raw[6],
		raw[8], raw[9],
		raw[10], raw[11], raw[12], raw[13], raw[14], raw[15],
	}
	return uuid, nil
}
