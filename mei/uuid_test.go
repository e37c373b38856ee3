package mei_test

import (
	. "gopkg.in/check.v1"

	"github.com/canonical/go-mei/mei"
)

type uuidSuite struct{}

var _ = Suite(&uuidSuite{})

func (*uuidSuite) TestUUIDLELayout(c *C) {
	uuid := mei.UUIDLE(0x55213584, 0x9a29, 0x4916, 0xba, 0xdf, 0x0f, 0xb7, 0xed, 0x68, 0x2a, 0xeb)
	// uuid_le stores the first three groups little-endian
	c.Check(uuid, Equals, mei.ClientUUID{
		0x84, 0x35, 0x21, 0x55,
		0x29, 0x9a,
		0x16, 0x49,
		0xba, 0xdf,
		0x0f, 0xb7, 0xed, 0x68, 0x2a, 0xeb,
	})
}

func (*uuidSuite) TestString(c *C) {
	uuid := mei.UUIDLE(0x55213584, 0x9a29, 0x4916, 0xba, 0xdf, 0x0f, 0xb7, 0xed, 0x68, 0x2a, 0xeb)
	c.Check(uuid.String(), Equals, "55213584-9a29-4916-badf-0fb7ed682aeb")
}

func (*uuidSuite) TestParseClientUUID(c *C) {
	uuid, err := mei.ParseClientUUID("55213584-9a29-4916-badf-0fb7ed682aeb")
	c.Assert(err, IsNil)
	c.Check(uuid, Equals, mei.UUIDLE(0x55213584, 0x9a29, 0x4916, 0xba, 0xdf, 0x0f, 0xb7, 0xed, 0x68, 0x2a, 0xeb))
}

func (*uuidSuite) TestParseClientUUIDRoundTrip(c *C) {
	uuid := mei.UUIDLE(0x8e6a6715, 0x9abc, 0x4043, 0x88, 0xef, 0x9e, 0x39, 0xc6, 0xf6, 0x3e, 0x0f)
	parsed, err := mei.ParseClientUUID(uuid.String())
	c.Assert(err, IsNil)
	c.Check(parsed, Equals, uuid)
}

func (*uuidSuite) TestParseClientUUIDErrors(c *C) {
	for _, s := range []string{
		"",
		"55213584",
		"55213584-9a29-4916-badf-0fb7ed682a",
		"55213584x9a29-4916-badf-0fb7ed682aeb",
		"5521358g-9a29-4916-badf-0fb7ed682aeb",
		"55213584-9a29-4916-badf-0fb7ed682aebff",
	} {
		_, err := mei.ParseClientUUID(s)
		c.Check(err, ErrorMatches, "cannot parse MEI client UUID .*", Commentf("%q", s))
	}
}
