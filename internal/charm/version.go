// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"bufio"
	"bytes"
	"os/exec"
	"strings"

	"github.com/juju/errors"
)

// SnapVersion returns the installed version of the named snap as reported
// by `snap list`.
func SnapVersion(name string) (string, error) {
	out, err := exec.Command("snap", "list", name).Output()
	if err != nil {
		return "", errors.Annotatef(err, "listing snap %q", name)
	}
	return ParseSnapList(out, name)
}

// ParseSnapList extracts the version of name from `snap list` output.
func ParseSnapList(out []byte, name string) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == name {
			return fields[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Trace(err)
	}
	return "", errors.NotFoundf("snap %q", name)
}
