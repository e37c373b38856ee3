package mei

import (
	"fmt"
	"os"

	"github.com/canonical/go-mei/dirs"
)

// AllowFixedAddress flips the MEI driver debugfs control that permits
// connections to fixed-address clients, such as the MKHI interface.
//
// The control is global to the device and stays set until the driver is
// reloaded, so a failure here does not necessarily mean that a later
// connect will be refused. Requires debugfs to be mounted and enough
// privileges to write below it.
func AllowFixedAddress() error {
	if err := os.WriteFile(dirs.MeiAllowFixedAddressPath, []byte("Y"), 0644); err != nil {
		return fmt.Errorf("cannot allow fixed address MEI clients: %w", err)
	}
	return nil
}
