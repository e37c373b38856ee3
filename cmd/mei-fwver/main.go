// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2025 Canonical Ltd
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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/canonical/go-mei/logger"
	"github.com/canonical/go-mei/mei"
	"github.com/canonical/go-mei/mkhi"
)

type options struct {
	Verbose bool          `short:"v" long:"verbose" description:"log protocol chatter"`
	Timeout time.Duration `long:"timeout" description:"timeout for sending commands to the firmware" default:"5s"`
}

// Standard streams, redirected for testing.
var Stdout io.Writer = os.Stdout

// for the tests
var (
	meiAllowFixedAddress = mei.AllowFixedAddress
	mkhiConnectFixed     = mkhi.ConnectFixed
)

func run(args []string) error {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("too many arguments: %s", strings.Join(rest, " "))
	}

	// The toggle stays set until the driver reloads, so failing to set
	// it again does not have to fail the connect below.
	if err := meiAllowFixedAddress(); err != nil {
		logger.Noticef("%v", err)
	}

	session, err := mkhiConnectFixed(opts.Timeout, opts.Verbose)
	if err != nil {
		return err
	}
	defer session.Close()

	res, err := session.GetFWVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(Stdout, "FW version: %s\n", res.Code)
	fmt.Fprintf(Stdout, "NFTP version: %s\n", res.NFTP)
	return nil
}

func main() {
	logger.SimpleSetup()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, mei.ErrPermissionDenied) {
			fmt.Fprintf(os.Stderr, "error: %v (run as root)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
