// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/octavia-diskimage-retrofit/internal/charm"
	"github.com/juju/octavia-diskimage-retrofit/internal/distroinfo"
	"github.com/juju/octavia-diskimage-retrofit/internal/hookenv"
	"github.com/juju/octavia-diskimage-retrofit/internal/logging"
	"github.com/juju/octavia-diskimage-retrofit/internal/metrics"
	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
	"github.com/juju/octavia-diskimage-retrofit/internal/schedule"
	"github.com/juju/octavia-diskimage-retrofit/internal/unitdata"
)

var logger = loggo.GetLogger("octavia.retrofit.cmd")

const (
	// exitErr is returned when the charm failed to handle the invocation.
	exitErr = 1
	// exitUsage is returned when the binary has been run in an invalid way.
	exitUsage = 2
	// exitPanic is returned when we exit due to an unhandled panic.
	exitPanic = 3

	// workDir is readable by the strictly confined retrofit snap.
	workDir = "/var/snap/octavia-diskimage-retrofit/common/tmp"
)

func main() {
	os.Exit(Main(os.Args))
}

// Main is not redundant with main(), because it provides an entry point
// for testing with arbitrary command line arguments.
func Main(args []string) int {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.Criticalf("Unhandled panic: \n%v\n%s", r, buf)
			os.Exit(exitPanic)
		}
	}()

	inv, err := parseInvocation(os.Getenv(hookenv.EnvDispatchPath), args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return exitUsage
	}
	hooks := hookenv.NewTools(nil, nil)
	if inv.kind == kindCron {
		if err := parseCronArgs(args[2:], hooks.UnitName()); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
			return exitUsage
		}
	}

	ctx := context.Background()
	if err := run(ctx, hooks, inv); err != nil {
		logger.Errorf("%s %s: %v", inv.kind, inv.name, err)
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		return exitErr
	}
	return 0
}

func run(ctx context.Context, hooks *hookenv.Tools, inv invocation) error {
	charmDir := hooks.CharmDir()
	if charmDir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return errors.Trace(err)
		}
		charmDir = dir
	}

	var debug bool
	if attrs, err := hooks.ConfigGet(); err == nil {
		if opts, err := charm.ParseOptions(attrs); err == nil {
			debug = opts.Settings.Debug
		}
	}
	closer, err := logging.Setup(loggo.DefaultContext(), logging.Config{
		Hook:   hooks,
		LogDir: logging.DefaultLogDir,
		Debug:  debug,
	})
	if err != nil {
		return errors.Annotate(err, "setting up logging")
	}
	defer func() { _ = closer.Close() }()

	store, err := unitdata.Open(ctx, filepath.Join(charmDir, unitdata.DefaultFilename))
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = store.Close() }()

	ch, err := newCharm(hooks, store, charmDir)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(dispatch(ctx, ch, hooks, inv))
}

func newCharm(hooks *hookenv.Tools, store *unitdata.Store, charmDir string) (*charm.Charm, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, errors.Trace(err)
	}
	scheduler, err := schedule.NewScheduler(schedule.Config{
		FilesDir: filepath.Join(charmDir, "files"),
		Wrapper: schedule.WrapperParams{
			UnitName: hooks.UnitName(),
			Command:  executable,
		},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, errors.Trace(err)
	}
	retrofitter, err := retrofit.NewRetrofitter(retrofit.Config{
		NewRegistry: retrofit.NewGlanceRegistry,
		Transformer: retrofit.ToolTransformer{Proxy: hooks.ProxySettings()},
		Progress:    charm.NewProgressReporter(hooks),
		Store:       store,
		Releases:    distroinfo.Default,
		HostSeries:  distroinfo.HostSeries,
		Lock:        retrofit.MachineLock(clock.WallClock),
		Clock:       clock.WallClock,
		Arch:        distroinfo.HostArch(),
		CharmName:   charm.Name,
		WorkDir:     workDir,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	return charm.New(charm.Config{
		Hooks:       hooks,
		Store:       store,
		Scheduler:   scheduler,
		Retrofitter: retrofitter,
		Metrics:     metrics.NewRecorder(metrics.DefaultTextfileDir),
		Clock:       clock.WallClock,
		SnapVersion: func() (string, error) { return charm.SnapVersion(charm.Name) },
	})
}
