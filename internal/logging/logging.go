// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package logging routes charm log output to the unit log and a rotated
// local file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/lumberjack/v2"
)

const (
	// DefaultLogDir holds the local log file.
	DefaultLogDir = "/var/log/octavia-diskimage-retrofit"

	// LogFilename is the name of the local log file.
	LogFilename = "retrofit.log"

	// Writer names registered with the logging context.
	HookWriterName = "juju-log"
	FileWriterName = "file"

	maxSizeMB  = 50
	maxBackups = 2
)

// HookLogger sends a message to the unit log.
type HookLogger interface {
	Log(level loggo.Level, message string) error
}

// Config describes where log output goes.
type Config struct {
	// Hook forwards entries to juju-log when set.
	Hook HookLogger

	// LogDir enables the local log file when set.
	LogDir string

	Debug bool
}

type hookWriter struct {
	hook HookLogger
}

// Write implements loggo.Writer.
func (w hookWriter) Write(entry loggo.Entry) {
	// Failures are dropped, there is nowhere left to report them.
	_ = w.hook.Log(entry.Level, fmt.Sprintf("%s: %s", entry.Module, entry.Message))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup replaces the writers of ctx according to config. The returned
// closer releases the local log file.
func Setup(ctx *loggo.Context, config Config) (io.Closer, error) {
	ctx.ResetWriters()
	var closer io.Closer = nopCloser{}
	if config.Hook != nil {
		// Hook stderr already lands in the unit log, so no stderr writer
		// is added alongside juju-log.
		if err := ctx.AddWriter(HookWriterName, hookWriter{hook: config.Hook}); err != nil {
			return nil, errors.Annotate(err, "adding juju-log writer")
		}
	} else {
		stderr := loggo.NewSimpleWriter(os.Stderr, loggo.DefaultFormatter)
		if err := ctx.AddWriter(loggo.DefaultWriterName, stderr); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if config.LogDir != "" {
		if err := os.MkdirAll(config.LogDir, 0755); err != nil {
			return nil, errors.Trace(err)
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(config.LogDir, LogFilename),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		if err := ctx.AddWriter(FileWriterName, loggo.NewSimpleWriter(writer, loggo.DefaultFormatter)); err != nil {
			return nil, errors.Annotate(err, "adding file writer")
		}
		closer = writer
	}

	level := loggo.INFO
	if config.Debug {
		level = loggo.DEBUG
	}
	if err := ctx.ConfigureLoggers(fmt.Sprintf("<root>=%s", level)); err != nil {
		return nil, errors.Trace(err)
	}
	return closer, nil
}
