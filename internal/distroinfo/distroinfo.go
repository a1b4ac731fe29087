// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package distroinfo maps Ubuntu series names onto release versions using
// the data shipped by the distro-info-data package.
package distroinfo

import (
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/os/v2/series"
)

var logger = loggo.GetLogger("octavia.retrofit.distroinfo")

// UbuntuCSV is where distro-info-data keeps the Ubuntu release table.
const UbuntuCSV = "/usr/share/distro-info/ubuntu.csv"

// supportedLTS lists the LTS series considered by LatestLTS.
var supportedLTS = series.SupportedLts

// distroSource is the part of series.DistroInfo used here.
type distroSource interface {
	Refresh() error
	SeriesInfo(seriesName string) (series.DistroInfoSerie, bool)
}

// Table answers release questions from a distro-info csv file, falling
// back on the series known to juju/os when the file can not be read.
type Table struct {
	mu     sync.Mutex
	source distroSource
	loaded bool
	usable bool
}

// New returns a Table reading from the given distro-info csv file.
func New(path string) *Table {
	return &Table{source: series.NewDistroInfo(path)}
}

// Default is the table read from UbuntuCSV.
var Default = New(UbuntuCSV)

func (t *Table) load() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		t.loaded = true
		if err := t.source.Refresh(); err != nil {
			// On non-Ubuntu systems this file won't exist, but that's expected.
			logger.Debugf("using built in release table: %v", err)
		} else {
			t.usable = true
		}
	}
	return t.usable
}

// info returns the distro-info row of the series, if the file has one.
func (t *Table) info(name string) (series.DistroInfoSerie, bool) {
	if !t.load() {
		return series.DistroInfoSerie{}, false
	}
	return t.source.SeriesInfo(name)
}

// SeriesVersion returns the release version, e.g. "20.04", of the named
// series, e.g. "focal".
func (t *Table) SeriesVersion(name string) (string, error) {
	if info, ok := t.info(name); ok {
		// The version may carry a LTS moniker.
		if fields := strings.Fields(info.Version); len(fields) > 0 {
			return fields[0], nil
		}
	}
	version, err := series.UbuntuSeriesVersion(name)
	if err != nil {
		logger.Tracef("series version: %v", err)
		return "", errors.NotFoundf("ubuntu series %q", name)
	}
	return version, nil
}

// LatestLTS returns the version of the newest LTS release published at or
// before now. Series absent from a readable distro-info file are skipped.
func (t *Table) LatestLTS(now time.Time) (string, error) {
	usable := t.load()
	var latest string
	for _, name := range supportedLTS() {
		info, ok := t.info(name)
		if usable && (!ok || info.Released.After(now)) {
			continue
		}
		version, err := t.SeriesVersion(name)
		if err != nil {
			logger.Debugf("skipping LTS %q: %v", name, err)
			continue
		}
		// Ubuntu versions are YY.MM, so they sort as strings.
		if version > latest {
			latest = version
		}
	}
	if latest == "" {
		return "", errors.NotFoundf("LTS release before %s", now.Format(time.DateOnly))
	}
	return latest, nil
}

// HostSeries returns the series of the machine we are running on.
func HostSeries() (string, error) {
	s, err := series.HostSeries()
	return s, errors.Trace(err)
}

var debianArches = map[string]string{
	"amd64":   "amd64",
	"arm64":   "arm64",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
	"riscv64": "riscv64",
	"386":     "i386",
	"arm":     "armhf",
}

// HostArch returns the Debian name of the architecture we are running on,
// which is what simplestreams product names carry.
func HostArch() string {
	if arch, ok := debianArches[runtime.GOARCH]; ok {
		return arch
	}
	return runtime.GOARCH
}
