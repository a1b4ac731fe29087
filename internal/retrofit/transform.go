// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package retrofit

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/juju/proxy"
	"github.com/juju/utils/v4"
)

const (
	// ToolCommand is the snap provided image retrofit tool.
	ToolCommand = "octavia-diskimage-retrofit"

	// bionicRelease needs the cloud archive for a recent haproxy.
	bionicRelease = "18.04"
	bionicPocket  = "ussuri"
)

// TransformArgs describe one invocation of the retrofit tool.
type TransformArgs struct {
	Input    string
	Output   string
	Release  string
	Settings Settings
}

// Transformer turns a base cloud image into an amphora image.
type Transformer interface {
	Transform(ctx context.Context, args TransformArgs) error
}

// ToolTransformer runs the retrofit tool as a child process. The tool is
// given all the time it needs.
type ToolTransformer struct {
	// Command defaults to ToolCommand.
	Command string

	// Proxy is exported to the tool environment.
	Proxy proxy.Settings

	// Environ defaults to os.Environ.
	Environ func() []string
}

// Transform implements Transformer.
func (t ToolTransformer) Transform(ctx context.Context, args TransformArgs) error {
	command := t.Command
	if command == "" {
		command = ToolCommand
	}
	environ := t.Environ
	if environ == nil {
		environ = os.Environ
	}

	argv := ToolArgs(args)
	cmd := exec.CommandContext(ctx, command, argv...)
	cmd.Env = MergeEnv(environ(), t.Proxy.AsEnvironmentValues())

	logger.Debugf("running %s %s", command, strings.Join(argv, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ExternalToolError{
			Command: command,
			Output:  string(out),
			Err:     err,
		}
	}
	logger.Tracef("%s output:\n%s", command, out)
	return nil
}

// ToolArgs returns the retrofit tool arguments, options first and the
// input and output paths last.
func ToolArgs(args TransformArgs) []string {
	var argv []string
	pocket := args.Settings.UCAPocket
	if pocket == "" && args.Release == bionicRelease {
		pocket = bionicPocket
	}
	if pocket != "" {
		argv = append(argv, "-u", pocket)
	}
	if args.Settings.Debug {
		argv = append(argv, "-d")
	}
	if args.Settings.UbuntuMirror != "" {
		argv = append(argv, "-m", args.Settings.UbuntuMirror)
	}
	if args.Settings.ImageFormat != "" {
		argv = append(argv, "-O", args.Settings.ImageFormat)
	}
	// The option may carry a full sources.list entry, only the URL is
	// understood by the tool.
	if mirror, _, _ := strings.Cut(args.Settings.UCAMirror, " "); mirror != "" {
		argv = append(argv, "-M", mirror)
	}
	return append(argv, args.Input, args.Output)
}

// MergeEnv returns base with the KEY=value entries of overrides replacing
// same named entries. Order of first appearance is kept and base is not
// modified.
func MergeEnv(base, overrides []string) []string {
	env := append([]string(nil), base...)
	for _, entry := range overrides {
		env = utils.Setenv(env, entry)
	}
	return env
}

var _ Transformer = ToolTransformer{}
