// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package schedule

import (
	"github.com/juju/errors"
)

// Frequency names a cron bucket run by run-parts.
type Frequency string

const (
	Hourly  Frequency = "hourly"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Frequencies lists every supported bucket.
var Frequencies = []Frequency{Hourly, Daily, Weekly, Monthly}

// ParseFrequency returns the Frequency named by s.
func ParseFrequency(s string) (Frequency, error) {
	for _, f := range Frequencies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.NotValidf("frequency %q", s)
}

func (f Frequency) String() string {
	return string(f)
}
