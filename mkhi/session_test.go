package mkhi_test

import (
	"encoding/binary"
	"errors"
	"time"

	. "gopkg.in/check.v1"

	"github.com/canonical/go-mei/mei"
	"github.com/canonical/go-mei/mkhi"
)

type sessionSuite struct{}

var _ = Suite(&sessionSuite{})

// fakeChannel is a scripted stand-in for an MEI channel.
type fakeChannel struct {
	rsp     []byte
	sendErr error
	recvErr error

	sent         [][]byte
	sendTimeouts []time.Duration
	closed       int
}

func (ch *fakeChannel) Send(p []byte, timeout time.Duration) (int, error) {
	if ch.sendErr != nil {
		return 0, ch.sendErr
	}
	ch.sent = append(ch.sent, append([]byte(nil), p...))
	ch.sendTimeouts = append(ch.sendTimeouts, timeout)
	return len(p), nil
}

func (ch *fakeChannel) Receive(p []byte, timeout time.Duration) (int, error) {
	if ch.recvErr != nil {
		return 0, ch.recvErr
	}
	return copy(p, ch.rsp), nil
}

func (ch *fakeChannel) Close() error {
	ch.closed++
	return nil
}

func validFWVersionResponse(c *C) []byte {
	h := mkhi.Header{GroupID: mkhi.GenGroupID, Command: mkhi.GenGetFWVersion, IsResponse: true}
	return fwVersionResponseData(c, h, 1, 2, 3, 4, 5, 6, 7, 8)
}

func (*sessionSuite) TestNewSessionTimeouts(c *C) {
	ch := &fakeChannel{}
	c.Check(mkhi.NewSession(ch, 0).SendTimeout(), Equals, mkhi.DefaultSendTimeout)
	c.Check(mkhi.NewSession(ch, 5*time.Second).SendTimeout(), Equals, 5*time.Second)
}

func (*sessionSuite) TestGetFWVersion(c *C) {
	ch := &fakeChannel{rsp: validFWVersionResponse(c)}
	s := mkhi.NewSession(ch, 5*time.Second)

	res, err := s.GetFWVersion()
	c.Assert(err, IsNil)
	c.Check(res.Code, Equals, mkhi.FWVersion{Minor: 1, Major: 2, Build: 3, Hotfix: 4})
	c.Check(res.NFTP, Equals, mkhi.FWVersion{Minor: 5, Major: 6, Build: 7, Hotfix: 8})

	// exactly one request went out, the bare header dword, with the
	// session timeout
	c.Assert(ch.sent, HasLen, 1)
	c.Check(binary.NativeEndian.Uint32(ch.sent[0]), Equals, uint32(0x000002ff))
	c.Check(ch.sendTimeouts, DeepEquals, []time.Duration{5 * time.Second})
}

func (*sessionSuite) TestGetFWVersionSendError(c *C) {
	ch := &fakeChannel{sendErr: errors.New("boom")}
	_, err := mkhi.NewSession(ch, 0).GetFWVersion()
	c.Assert(err, ErrorMatches, "boom")
}

func (*sessionSuite) TestGetFWVersionReceiveError(c *C) {
	ch := &fakeChannel{recvErr: errors.New("boom")}
	_, err := mkhi.NewSession(ch, 0).GetFWVersion()
	c.Assert(err, ErrorMatches, "boom")
}

func (*sessionSuite) TestGetFWVersionShortResponse(c *C) {
	ch := &fakeChannel{rsp: []byte{0xff, 0x82, 0x00}}
	_, err := mkhi.NewSession(ch, 0).GetFWVersion()
	c.Assert(err, ErrorMatches, "cannot unmarshal MKHI get firmware version response: unexpected length 3")
}

func (*sessionSuite) TestGetFWVersionFailedResult(c *C) {
	h := mkhi.Header{GroupID: mkhi.GenGroupID, Command: mkhi.GenGetFWVersion, IsResponse: true, Result: 0x01}
	ch := &fakeChannel{rsp: fwVersionResponseData(c, h, 1, 2, 3, 4, 5, 6, 7, 8)}
	_, err := mkhi.NewSession(ch, 0).GetFWVersion()
	c.Assert(err, ErrorMatches, "MKHI command failed with result 0x1")
}

func (*sessionSuite) TestClose(c *C) {
	ch := &fakeChannel{}
	s := mkhi.NewSession(ch, 0)
	c.Assert(s.Close(), IsNil)
	c.Check(ch.closed, Equals, 1)
}

func (*sessionSuite) TestConnectFixed(c *C) {
	ch := &fakeChannel{rsp: validFWVersionResponse(c)}
	restore := mkhi.MockMeiConnect(func(uuid mei.ClientUUID, requiredProtocolVersion uint8, verbose bool) (mkhi.Channel, error) {
		c.Check(uuid, Equals, mkhi.FixedHostIfUUID)
		c.Check(requiredProtocolVersion, Equals, uint8(0))
		c.Check(verbose, Equals, true)
		return ch, nil
	})
	defer restore()

	s, err := mkhi.ConnectFixed(0, true)
	c.Assert(err, IsNil)
	c.Check(s.SendTimeout(), Equals, mkhi.DefaultSendTimeout)

	res, err := s.GetFWVersion()
	c.Assert(err, IsNil)
	c.Check(res.Code.String(), Equals, "2.1.4.3")
}

func (*sessionSuite) TestConnectFixedError(c *C) {
	restore := mkhi.MockMeiConnect(func(uuid mei.ClientUUID, requiredProtocolVersion uint8, verbose bool) (mkhi.Channel, error) {
		return nil, errors.New("boom")
	})
	defer restore()

	_, err := mkhi.ConnectFixed(0, false)
	c.Assert(err, ErrorMatches, "boom")
}
