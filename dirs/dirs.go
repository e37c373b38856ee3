// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package dirs holds the paths of the kernel interfaces used to talk to
// the Intel Management Engine. All paths are anchored below GlobalRootDir
// so that tests can redirect them to a scratch tree.
package dirs

import (
	"path/filepath"
)

var (
	// GlobalRootDir is the root directory that the other paths hang off.
	GlobalRootDir string

	// DevDir is the device node directory.
	DevDir string

	// MeiDevicePath is the MEI character device node.
	MeiDevicePath string

	// SysKernelDebugDir is where debugfs is mounted.
	SysKernelDebugDir string

	// MeiAllowFixedAddressPath is the MEI driver debugfs control that
	// permits connections to fixed-address clients.
	MeiAllowFixedAddressPath string
)

// SetRootDir allows settings a new global root directory, this is useful
// for testing.
func SetRootDir(rootdir string) {
	if rootdir == "" {
		rootdir = "/"
	}
	GlobalRootDir = rootdir

	DevDir = filepath.Join(rootdir, "/dev")
	MeiDevicePath = filepath.Join(DevDir, "mei0")
	SysKernelDebugDir = filepath.Join(rootdir, "/sys/kernel/debug")
	MeiAllowFixedAddressPath = filepath.Join(SysKernelDebugDir, "mei0/allow_fixed_address")
}

func init() {
	// init the global directories at startup
	SetRootDir("/")
}
