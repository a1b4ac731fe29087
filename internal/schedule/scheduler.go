// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package schedule installs the cron job running periodic retrofits on the
// leader unit.
package schedule

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("octavia.retrofit.schedule")

const (
	// LinkName is the entry placed in the cron bucket.
	LinkName = "octavia-diskimage-retrofit"

	// WrapperName is the wrapper script, relative to the charm files
	// directory.
	WrapperName = "auto-retrofit"

	// DefaultCronRoot holds the cron.<frequency> directories.
	DefaultCronRoot = "/etc"
)

// Config holds the dependencies of a Scheduler.
type Config struct {
	// CronRoot defaults to DefaultCronRoot.
	CronRoot string

	// FilesDir is where the wrapper script is written.
	FilesDir string

	Wrapper WrapperParams

	// Symlink and Remove default to the os functions.
	Symlink func(oldname, newname string) error
	Remove  func(name string) error
}

// Validate returns an error if the config cannot be used.
func (c Config) Validate() error {
	if c.FilesDir == "" {
		return errors.NotValidf("empty FilesDir")
	}
	return nil
}

// State is the desired and prior schedule.
type State struct {
	Enabled   bool
	Frequency Frequency

	// Previous is the frequency the job was last installed for, if any.
	Previous Frequency

	Leader bool
}

// Scheduler keeps a single cron link in step with the charm options.
type Scheduler struct {
	config Config
}

// NewScheduler returns a Scheduler using the given config.
func NewScheduler(config Config) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.CronRoot == "" {
		config.CronRoot = DefaultCronRoot
	}
	if config.Symlink == nil {
		config.Symlink = os.Symlink
	}
	if config.Remove == nil {
		config.Remove = os.Remove
	}
	return &Scheduler{config: config}, nil
}

// LinkPath returns the cron entry path for f.
func (s *Scheduler) LinkPath(f Frequency) string {
	return filepath.Join(s.config.CronRoot, "cron."+string(f), LinkName)
}

// WrapperPath returns the path the cron entry points at.
func (s *Scheduler) WrapperPath() (string, error) {
	path, err := filepath.Abs(filepath.Join(s.config.FilesDir, WrapperName))
	return path, errors.Trace(err)
}

// Handle removes any existing entry and, when enabled on the leader,
// installs one for the current frequency. Only one unit of the application
// runs the job.
func (s *Scheduler) Handle(state State) error {
	if state.Previous != "" && state.Previous != state.Frequency {
		if err := s.removeLink(s.LinkPath(state.Previous)); err != nil {
			return errors.Trace(err)
		}
	}
	current := s.LinkPath(state.Frequency)
	if err := s.removeLink(current); err != nil {
		return errors.Trace(err)
	}
	if !state.Enabled || !state.Leader {
		return nil
	}

	target, err := s.WrapperPath()
	if err != nil {
		return errors.Trace(err)
	}
	if err := writeWrapper(target, s.config.Wrapper); err != nil {
		return errors.Trace(err)
	}
	err = s.config.Symlink(target, current)
	if errors.Is(err, fs.ErrExist) {
		logger.Infof("symlink %q already exists", current)
		return nil
	} else if err != nil {
		return errors.Annotatef(err, "installing cron job")
	}
	logger.Infof("installed %s retrofit job %q", state.Frequency, current)
	return nil
}

// Remove deletes the entry from every bucket.
func (s *Scheduler) Remove() error {
	for _, f := range Frequencies {
		if err := s.removeLink(s.LinkPath(f)); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (s *Scheduler) removeLink(path string) error {
	err := s.config.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("symlink %q does not exist", path)
		return nil
	}
	return errors.Annotatef(err, "removing cron job")
}
