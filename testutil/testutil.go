// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2023 Canonical Ltd
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

// Package testutil carries helpers and gocheck checkers shared by the
// test suites of this module.
package testutil

// Mock assigns mock to the target location and returns a restore function
// that reverts the target to its previous value.
func Mock[T any](target *T, mock T) (restore func()) {
	restore = Backup(target)
	*target = mock
	return restore
}

// Backup copies the current value of the target location and returns a
// restore function that reverts the target to it.
func Backup[T any](target *T) (restore func()) {
	old := *target
	return func() {
		*target = old
	}
}
