// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/names/v5"
)

// Invocation kinds.
const (
	kindHook   = "hooks"
	kindAction = "actions"
	kindCron   = "cron"
)

// invocation is what the binary has been asked to do.
type invocation struct {
	kind string
	name string
}

// parseInvocation works out the invocation from JUJU_DISPATCH_PATH, falling
// back to the name the binary was run as. A first argument of "cron" wins
// over both.
func parseInvocation(dispatchPath string, args []string) (invocation, error) {
	if len(args) > 1 && args[1] == kindCron {
		return invocation{kind: kindCron, name: kindCron}, nil
	}
	if dispatchPath != "" {
		dir, name := path.Split(strings.TrimPrefix(dispatchPath, "./"))
		kind := strings.TrimSuffix(dir, "/")
		if (kind == kindHook || kind == kindAction) && name != "" {
			return invocation{kind: kind, name: name}, nil
		}
		return invocation{}, errors.NotValidf("dispatch path %q", dispatchPath)
	}
	if len(args) == 0 {
		return invocation{}, errors.NotValidf("empty command line")
	}
	dir, name := filepath.Split(args[0])
	if filepath.Base(filepath.Clean(dir)) == kindAction {
		return invocation{kind: kindAction, name: name}, nil
	}
	return invocation{kind: kindHook, name: name}, nil
}

// parseCronArgs checks the arguments following "cron". The wrapper script
// names the unit it was installed by, which must be the unit whose context
// juju-exec gave us.
func parseCronArgs(args []string, contextUnit string) error {
	var unit string
	flags := gnuflag.NewFlagSet(kindCron, gnuflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&unit, "unit", "", "unit that installed the cron job")
	if err := flags.Parse(true, args); err != nil {
		return errors.NewNotValid(err, "cron arguments")
	}
	if flags.NArg() > 0 {
		return errors.NotValidf("cron arguments %q", flags.Args())
	}
	if unit == "" {
		return nil
	}
	if !names.IsValidUnit(unit) {
		return errors.NotValidf("unit name %q", unit)
	}
	if contextUnit != "" && unit != contextUnit {
		return errors.NotValidf("cron job of unit %q run as %q", unit, contextUnit)
	}
	return nil
}

// Handler is implemented by *charm.Charm.
type Handler interface {
	Install(ctx context.Context) error
	ConfigChanged(ctx context.Context) error
	LeaderElected(ctx context.Context) error
	LeaderSettingsChanged(ctx context.Context) error
	UpgradeCharm(ctx context.Context) error
	UpdateStatus(ctx context.Context) error
	Stop(ctx context.Context) error
	IdentityCredentialsJoined(ctx context.Context) error
	IdentityCredentialsChanged(ctx context.Context) error
	AssessStatus(ctx context.Context) error
	RetrofitAction(ctx context.Context) error
	CronRetrofit(ctx context.Context) error
}

// ActionFailer reports action failures.
type ActionFailer interface {
	ActionFail(message string) error
}

func hookHandlers(h Handler) map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"install":                               h.Install,
		"start":                                 h.AssessStatus,
		"config-changed":                        h.ConfigChanged,
		"leader-elected":                        h.LeaderElected,
		"leader-settings-changed":               h.LeaderSettingsChanged,
		"upgrade-charm":                         h.UpgradeCharm,
		"update-status":                         h.UpdateStatus,
		"stop":                                  h.Stop,
		"remove":                                h.Stop,
		"identity-credentials-relation-joined":  h.IdentityCredentialsJoined,
		"identity-credentials-relation-changed": h.IdentityCredentialsChanged,
		"identity-credentials-relation-broken":  h.AssessStatus,
	}
}

// dispatch runs the handler for inv.
func dispatch(ctx context.Context, h Handler, failer ActionFailer, inv invocation) error {
	switch inv.kind {
	case kindCron:
		return errors.Trace(h.CronRetrofit(ctx))
	case kindAction:
		if inv.name == "retrofit-image" {
			return errors.Trace(h.RetrofitAction(ctx))
		}
		return errors.Trace(failer.ActionFail(fmt.Sprintf("Action %s is undefined", inv.name)))
	}
	handler, ok := hookHandlers(h)[inv.name]
	if !ok {
		logger.Debugf("nothing to do for %s hook", inv.name)
		return nil
	}
	return errors.Trace(handler(ctx))
}
