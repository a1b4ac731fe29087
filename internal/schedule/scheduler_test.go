// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package schedule_test

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/octavia-diskimage-retrofit/internal/schedule"
)

type schedulerSuite struct {
	testing.IsolationSuite

	cronRoot string
	filesDir string
}

var _ = gc.Suite(&schedulerSuite{})

func (s *schedulerSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.cronRoot = c.MkDir()
	for _, f := range schedule.Frequencies {
		c.Assert(os.Mkdir(filepath.Join(s.cronRoot, "cron."+f.String()), 0755), jc.ErrorIsNil)
	}
	s.filesDir = c.MkDir()
}

func (s *schedulerSuite) newScheduler(c *gc.C, mutate func(*schedule.Config)) *schedule.Scheduler {
	config := schedule.Config{
		CronRoot: s.cronRoot,
		FilesDir: s.filesDir,
		Wrapper: schedule.WrapperParams{
			UnitName: "octavia-diskimage-retrofit/0",
			Command:  "/var/lib/juju/agents/unit-octavia-diskimage-retrofit-0/charm/octavia-diskimage-retrofit",
		},
	}
	if mutate != nil {
		mutate(&config)
	}
	scheduler, err := schedule.NewScheduler(config)
	c.Assert(err, jc.ErrorIsNil)
	return scheduler
}

// links returns the cron entries found in every bucket.
func (s *schedulerSuite) links(c *gc.C) []string {
	var found []string
	for _, f := range schedule.Frequencies {
		path := filepath.Join(s.cronRoot, "cron."+f.String(), schedule.LinkName)
		if _, err := os.Lstat(path); err == nil {
			found = append(found, path)
		}
	}
	return found
}

func (s *schedulerSuite) TestParseFrequency(c *gc.C) {
	f, err := schedule.ParseFrequency("monthly")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(f, gc.Equals, schedule.Monthly)

	_, err = schedule.ParseFrequency("fortnightly")
	c.Assert(err, jc.ErrorIs, errors.NotValid)
	c.Check(err, gc.ErrorMatches, `frequency "fortnightly" not valid`)
}

func (s *schedulerSuite) TestInstallsOnLeader(c *gc.C) {
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)

	link := filepath.Join(s.cronRoot, "cron.weekly", schedule.LinkName)
	c.Assert(s.links(c), jc.DeepEquals, []string{link})
	target, err := os.Readlink(link)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(target, gc.Equals, filepath.Join(s.filesDir, schedule.WrapperName))

	info, err := os.Stat(target)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(info.Mode().Perm(), gc.Equals, os.FileMode(0755))
}

func (s *schedulerSuite) TestFrequencyChangeMovesLink(c *gc.C) {
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Hourly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
	err = scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Previous: schedule.Hourly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)

	c.Check(s.links(c), jc.DeepEquals, []string{filepath.Join(s.cronRoot, "cron.weekly", schedule.LinkName)})
}

func (s *schedulerSuite) TestNonLeaderHasNoLink(c *gc.C) {
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Daily, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
	err = scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Daily, Previous: schedule.Daily, Leader: false})
	c.Assert(err, jc.ErrorIsNil)

	c.Check(s.links(c), gc.HasLen, 0)
}

func (s *schedulerSuite) TestDisabledHasNoLink(c *gc.C) {
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: false, Frequency: schedule.Daily, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.links(c), gc.HasLen, 0)
	_, err = os.Stat(filepath.Join(s.filesDir, schedule.WrapperName))
	c.Check(os.IsNotExist(err), jc.IsTrue)
}

func (s *schedulerSuite) TestRemoveOrder(c *gc.C) {
	var removed []string
	scheduler := s.newScheduler(c, func(config *schedule.Config) {
		config.Remove = func(name string) error {
			removed = append(removed, name)
			return &os.PathError{Op: "remove", Path: name, Err: syscall.ENOENT}
		}
		config.Symlink = func(string, string) error { return nil }
	})

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Previous: schedule.Hourly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(removed, jc.DeepEquals, []string{
		filepath.Join(s.cronRoot, "cron.hourly", schedule.LinkName),
		filepath.Join(s.cronRoot, "cron.weekly", schedule.LinkName),
	})
}

func (s *schedulerSuite) TestSymlinkExistsIsBenign(c *gc.C) {
	scheduler := s.newScheduler(c, func(config *schedule.Config) {
		config.Symlink = func(oldname, newname string) error {
			return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.EEXIST}
		}
	})

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *schedulerSuite) TestSymlinkErrorReturned(c *gc.C) {
	scheduler := s.newScheduler(c, func(config *schedule.Config) {
		config.Symlink = func(oldname, newname string) error {
			return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: syscall.EACCES}
		}
	})

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Leader: true})
	c.Assert(err, gc.ErrorMatches, `installing cron job: symlink .*: permission denied`)
}

func (s *schedulerSuite) TestRemoveErrorReturned(c *gc.C) {
	scheduler := s.newScheduler(c, func(config *schedule.Config) {
		config.Remove = func(name string) error {
			return &os.PathError{Op: "remove", Path: name, Err: syscall.EPERM}
		}
	})

	err := scheduler.Handle(schedule.State{Frequency: schedule.Weekly})
	c.Assert(err, gc.ErrorMatches, `removing cron job: remove .*: operation not permitted`)
}

func (s *schedulerSuite) TestRemoveAll(c *gc.C) {
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Monthly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(s.links(c), gc.HasLen, 1)

	c.Assert(scheduler.Remove(), jc.ErrorIsNil)
	c.Check(s.links(c), gc.HasLen, 0)
}

func (s *schedulerSuite) TestWrapperNotOverwritten(c *gc.C) {
	path := filepath.Join(s.filesDir, schedule.WrapperName)
	c.Assert(os.WriteFile(path, []byte("#!/bin/sh\ntrue\n"), 0755), jc.ErrorIsNil)
	scheduler := s.newScheduler(c, nil)

	err := scheduler.Handle(schedule.State{Enabled: true, Frequency: schedule.Weekly, Leader: true})
	c.Assert(err, jc.ErrorIsNil)

	data, err := os.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "#!/bin/sh\ntrue\n")
}

type wrapperSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&wrapperSuite{})

func (s *wrapperSuite) TestRenderWrapper(c *gc.C) {
	data, err := schedule.RenderWrapper(schedule.WrapperParams{
		UnitName: "octavia-diskimage-retrofit/0",
		Command:  "/charm/octavia-diskimage-retrofit",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, `#!/bin/sh
# Installed by the octavia-diskimage-retrofit/0 unit. Changes will be overwritten.
exec /usr/bin/juju-exec octavia-diskimage-retrofit/0 '/charm/octavia-diskimage-retrofit cron --unit octavia-diskimage-retrofit/0'
`)
}

func (s *wrapperSuite) TestRenderWrapperInvalidUnit(c *gc.C) {
	_, err := schedule.RenderWrapper(schedule.WrapperParams{
		UnitName: "octavia; rm -rf /",
		Command:  "/charm/octavia-diskimage-retrofit",
	})
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}
