package mei_test

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/canonical/go-mei/dirs"
	"github.com/canonical/go-mei/mei"
	"github.com/canonical/go-mei/testutil"
)

type fixedAddrSuite struct{}

var _ = Suite(&fixedAddrSuite{})

func (s *fixedAddrSuite) TestAllowFixedAddress(c *C) {
	dirs.SetRootDir(c.MkDir())
	defer dirs.SetRootDir("")

	c.Assert(os.MkdirAll(filepath.Dir(dirs.MeiAllowFixedAddressPath), 0755), IsNil)

	c.Assert(mei.AllowFixedAddress(), IsNil)
	c.Check(dirs.MeiAllowFixedAddressPath, testutil.FileEquals, "Y")
}

func (s *fixedAddrSuite) TestAllowFixedAddressError(c *C) {
	// no debugfs below the test root
	dirs.SetRootDir(c.MkDir())
	defer dirs.SetRootDir("")

	err := mei.AllowFixedAddress()
	c.Assert(err, ErrorMatches, "cannot allow fixed address MEI clients: .*")
}
