// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package distroinfo_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/octavia-diskimage-retrofit/internal/distroinfo"
)

type distroInfoSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&distroInfoSuite{})

func (s *distroInfoSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.PatchValue(distroinfo.SupportedLTS, func() []string {
		return []string{"bionic", "focal", "jammy", "noble"}
	})
}

const ubuntuCSV = `version,codename,series,created,release,eol,eol-server,eol-esm
18.04 LTS,Bionic Beaver,bionic,2017-10-19,2018-04-26,2023-05-31,2023-05-31,2028-04-26
19.10,Eoan Ermine,eoan,2019-04-18,2019-10-17,2020-07-17,2020-07-17,
20.04 LTS,Focal Fossa,focal,2019-10-17,2020-04-23,2025-05-29,2025-05-29,2030-04-23
21.04,Hirsute Hippo,hirsute,2020-10-22,2021-04-22,2022-01-20,2022-01-20,
22.04 LTS,Jammy Jellyfish,jammy,2021-10-14,2022-04-21,2027-06-01,2027-06-01,2032-04-21
`

func (s *distroInfoSuite) table(c *gc.C, content string) *distroinfo.Table {
	path := filepath.Join(c.MkDir(), "ubuntu.csv")
	err := os.WriteFile(path, []byte(content), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return distroinfo.New(path)
}

func (s *distroInfoSuite) TestSeriesVersion(c *gc.C) {
	table := s.table(c, ubuntuCSV)
	version, err := table.SeriesVersion("focal")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "20.04")

	_, err = table.SeriesVersion("warty")
	c.Assert(errors.Is(err, errors.NotFound), jc.IsTrue)
}

func (s *distroInfoSuite) TestLatestLTS(c *gc.C) {
	table := s.table(c, ubuntuCSV)
	version, err := table.LatestLTS(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "20.04")

	version, err = table.LatestLTS(time.Date(2022, 4, 21, 0, 0, 0, 0, time.UTC))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "22.04")

	// noble is not in the file, so it is never selected.
	version, err = table.LatestLTS(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "22.04")

	_, err = table.LatestLTS(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Assert(errors.Is(err, errors.NotFound), jc.IsTrue)
}

func (s *distroInfoSuite) TestLatestLTSWithoutFile(c *gc.C) {
	s.PatchValue(distroinfo.SupportedLTS, func() []string {
		return []string{"bionic", "focal"}
	})
	table := distroinfo.New(filepath.Join(c.MkDir(), "missing.csv"))
	version, err := table.LatestLTS(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "20.04")
}

func (s *distroInfoSuite) TestMissingFileUsesFallback(c *gc.C) {
	table := distroinfo.New(filepath.Join(c.MkDir(), "missing.csv"))
	version, err := table.SeriesVersion("bionic")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(version, gc.Equals, "18.04")

	_, err = table.SeriesVersion("warty")
	c.Assert(errors.Is(err, errors.NotFound), jc.IsTrue)
	c.Assert(err, gc.ErrorMatches, `ubuntu series "warty" not found`)
}

func (s *distroInfoSuite) TestHostArch(c *gc.C) {
	c.Assert(distroinfo.HostArch(), gc.Not(gc.Equals), "")
}
