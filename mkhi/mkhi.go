// Package mkhi implements the Management Engine Kernel Host Interface
// (MKHI) message encoding and a session speaking it to the
// fixed-address MKHI client over an MEI channel.
package mkhi

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MKHI command group and command numbers used by this package.
const (
	// GenGroupID is the general-purpose MKHI command group.
	GenGroupID = 0xff
	// GenGetFWVersion asks the firmware for its version.
	GenGetFWVersion = 0x02
)

// Header is the fixed header carried by every MKHI message, both host
// to firmware and back.
//
// On the wire it is a single dword of bit-fields in the byte order
// shared by host and firmware, laid out as below.
//
//	GroupID    bits  0-7   command group
//	Command    bits  8-14  command within the group
//	IsResponse bit   15    set on firmware replies
//	Reserved   bits 16-23  always zero
//	Result     bits 24-31  completion code, zero on success
type Header struct {
	GroupID    uint8
	Command    uint8
	IsResponse bool
	Result     uint8
}

// HeaderSize is the encoded size of a Header in bytes.
const HeaderSize = 4

// MarshalBinary marshals the header into its wire dword.
func (h Header) MarshalBinary() ([]byte, error) {
	if h.Command > 0x7f {
		return nil, fmt.Errorf("cannot marshal MKHI header: command %#x does not fit in 7 bits", h.Command)
	}
	dword := uint32(h.GroupID) | uint32(h.Command)<<8 | uint32(h.Result)<<24
	if h.IsResponse {
		dword |= 1 << 15
	}
	data := make([]byte, HeaderSize)
	binary.NativeEndian.PutUint32(data, dword)
	return data, nil
}

// UnmarshalBinary unmarshals the header from binary form.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("cannot unmarshal MKHI header: unexpected length %d", len(data))
	}
	dword := binary.NativeEndian.Uint32(data)
	h.GroupID = uint8(dword & 0xff)
	h.Command = uint8((dword >> 8) & 0x7f)
	h.IsResponse = dword&(1<<15) != 0
	h.Result = uint8(dword >> 24)
	return nil
}

// GetFWVersionRequest returns the request header for the general group
// get-firmware-version command. The request carries no payload beyond
// the header.
func GetFWVersionRequest() Header {
	return Header{GroupID: GenGroupID, Command: GenGetFWVersion}
}

// FWVersion is one firmware version quadruple as reported by the
// get-firmware-version command.
type FWVersion struct {
	Minor  uint16
	Major  uint16
	Build  uint16
	Hotfix uint16
}

// String renders the version the way Intel tooling prints it.
func (v FWVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Hotfix, v.Build)
}

// GetFWVersionResponse is the firmware reply to GetFWVersionRequest.
//
// This structure corresponds to the firmware layout described below.
//
//	struct {
//		uint32_t header;        /* MKHI header dword */
//		uint16_t code_minor;
//		uint16_t code_major;
//		uint16_t code_build_no;
//		uint16_t code_hotfix;
//		uint16_t nftp_minor;
//		uint16_t nftp_major;
//		uint16_t nftp_build_no;
//		uint16_t nftp_hotfix;
//	};
type GetFWVersionResponse struct {
	Header Header
	// Code is the version of the running firmware code.
	Code FWVersion
	// NFTP is the version of the network flash image.
	NFTP FWVersion
}

// GetFWVersionResponseSize is the encoded size of a
// GetFWVersionResponse in bytes.
const GetFWVersionResponseSize = HeaderSize + 16

// UnmarshalBinary unmarshals the response from binary form.
func (r *GetFWVersionResponse) UnmarshalBinary(data []byte) error {
	const prefix = "cannot unmarshal MKHI get firmware version response"
	if len(data) != GetFWVersionResponseSize {
		return fmt.Errorf("%s: unexpected length %d", prefix, len(data))
	}
	if err := r.Header.UnmarshalBinary(data[:HeaderSize]); err != nil {
		return fmt.Errorf("%s: %s", prefix, err)
	}
	buf := bytes.NewBuffer(data[HeaderSize:])
	if err := binary.Read(buf, binary.NativeEndian, &r.Code); err != nil {
		return fmt.Errorf("%s: %s", prefix, err)
	}
	if err := binary.Read(buf, binary.NativeEndian, &r.NFTP); err != nil {
		return fmt.Errorf("%s: %s", prefix, err)
	}
	return nil
}

// Validate returns an error if the message is not a successful response
// to the get-firmware-version command.
func (r *GetFWVersionResponse) Validate() error {
	if !r.Header.IsResponse {
		return fmt.Errorf("MKHI message is not a response")
	}
	if r.Header.GroupID != GenGroupID || r.Header.Command != GenGetFWVersion {
		return fmt.Errorf("MKHI response for unexpected command: group %#x command %#x",
			r.Header.GroupID, r.Header.Command)
	}
	if r.Header.Result != 0 {
		return fmt.Errorf("MKHI command failed with result %#x", r.Header.Result)
	}
	return nil
}
