package mkhi

import (
	"time"

	"github.com/canonical/go-mei/mei"
)

// FixedHostIfUUID identifies the fixed-address MKHI client,
// 55213584-9a29-4916-badf-0fb7ed682aeb.
var FixedHostIfUUID = mei.UUIDLE(0x55213584, 0x9a29, 0x4916, 0xba, 0xdf, 0x0f, 0xb7, 0xed, 0x68, 0x2a, 0xeb)

// DefaultSendTimeout bounds MKHI sends when the session is constructed
// with a zero timeout.
const DefaultSendTimeout = 20 * time.Second

// Channel is the part of mei.Channel that a session drives.
type Channel interface {
	Send(p []byte, timeout time.Duration) (int, error)
	Receive(p []byte, timeout time.Duration) (int, error)
	Close() error
}

// Session is an MKHI conversation with the firmware over an open MEI
// channel. Like the channel underneath it is a synchronous,
// single-owner resource.
type Session struct {
	ch          Channel
	sendTimeout time.Duration
}

// NewSession wraps an open channel into an MKHI session. A zero
// sendTimeout is replaced with DefaultSendTimeout.
func NewSession(ch Channel, sendTimeout time.Duration) *Session {
	if sendTimeout == 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Session{ch: ch, sendTimeout: sendTimeout}
}

var meiConnect = func(uuid mei.ClientUUID, requiredProtocolVersion uint8, verbose bool) (Channel, error) {
	return mei.Connect(uuid, requiredProtocolVersion, verbose)
}

// ConnectFixed connects to the fixed-address MKHI client and wraps the
// channel into a session. Fixed-address clients are refused by the
// driver unless enabled, see mei.AllowFixedAddress.
func ConnectFixed(sendTimeout time.Duration, verbose bool) (*Session, error) {
	ch, err := meiConnect(FixedHostIfUUID, 0, verbose)
	if err != nil {
		return nil, err
	}
	return NewSession(ch, sendTimeout), nil
}

// GetFWVersion asks the firmware for the versions of its running code
// and of its network flash image.
func (s *Session) GetFWVersion() (*GetFWVersionResponse, error) {
	req, err := GetFWVersionRequest().MarshalBinary()
	if err != nil {
		return nil, err
	}
	if _, err := s.ch.Send(req, s.sendTimeout); err != nil {
		return nil, err
	}
	buf := make([]byte, GetFWVersionResponseSize)
	n, err := s.ch.Receive(buf, s.sendTimeout)
	if err != nil {
		return nil, err
	}
	var res GetFWVersionResponse
	if err := res.UnmarshalBinary(buf[:n]); err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// Close closes the underlying channel.
func (s *Session) Close() error {
	return s.ch.Close()
}
