// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2015 Canonical Ltd
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

package testutil

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/check.v1"
)

type fileContentChecker struct {
	*check.CheckerInfo
}

// FileEquals verifies that the given file's content is equal to the string
// (or fmt.Stringer) or []byte provided.
var FileEquals check.Checker = &fileContentChecker{
	CheckerInfo: &check.CheckerInfo{Name: "FileEquals", Params: []string{"filename", "contents"}},
}

func (c *fileContentChecker) Check(params []interface{}, names []string) (result bool, error string) {
	filename, ok := params[0].(string)
	if !ok {
		return false, "filename must be a string"
	}
	return fileContentCheck(filename, params[1])
}

func fileContentCheck(filename string, content interface{}) (result bool, error string) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return false, fmt.Sprintf("Cannot read file %q: %v", filename, err)
	}
	presentableBuf := string(buf)
	switch content := content.(type) {
	case string:
		result = presentableBuf == content
	case []byte:
		result = bytes.Equal(buf, content)
	case fmt.Stringer:
		result = presentableBuf == content.String()
	default:
		error = fmt.Sprintf("%v is not a supported content type (%T)", content, content)
	}
	if !result && error == "" {
		error = fmt.Sprintf("Failed to match with file contents:\n%v", presentableBuf)
	}
	return result, error
}
