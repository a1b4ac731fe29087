// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type recordingHandler struct {
	calls []string
	err   error
}

func (h *recordingHandler) record(name string) error {
	h.calls = append(h.calls, name)
	return h.err
}

func (h *recordingHandler) Install(context.Context) error       { return h.record("Install") }
func (h *recordingHandler) ConfigChanged(context.Context) error { return h.record("ConfigChanged") }
func (h *recordingHandler) LeaderElected(context.Context) error { return h.record("LeaderElected") }
func (h *recordingHandler) LeaderSettingsChanged(context.Context) error {
	return h.record("LeaderSettingsChanged")
}
func (h *recordingHandler) UpgradeCharm(context.Context) error { return h.record("UpgradeCharm") }
func (h *recordingHandler) UpdateStatus(context.Context) error { return h.record("UpdateStatus") }
func (h *recordingHandler) Stop(context.Context) error         { return h.record("Stop") }
func (h *recordingHandler) IdentityCredentialsJoined(context.Context) error {
	return h.record("IdentityCredentialsJoined")
}
func (h *recordingHandler) IdentityCredentialsChanged(context.Context) error {
	return h.record("IdentityCredentialsChanged")
}
func (h *recordingHandler) AssessStatus(context.Context) error   { return h.record("AssessStatus") }
func (h *recordingHandler) RetrofitAction(context.Context) error { return h.record("RetrofitAction") }
func (h *recordingHandler) CronRetrofit(context.Context) error   { return h.record("CronRetrofit") }

func (h *recordingHandler) ActionFail(message string) error {
	return h.record("ActionFail " + message)
}

type dispatchSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&dispatchSuite{})

func (s *dispatchSuite) TestParseInvocation(c *gc.C) {
	for i, test := range []struct {
		dispatchPath string
		args         []string
		expected     invocation
	}{{
		dispatchPath: "hooks/install",
		args:         []string{"./dispatch"},
		expected:     invocation{kind: kindHook, name: "install"},
	}, {
		dispatchPath: "actions/retrofit-image",
		args:         []string{"./dispatch"},
		expected:     invocation{kind: kindAction, name: "retrofit-image"},
	}, {
		dispatchPath: "./hooks/config-changed",
		args:         []string{"./dispatch"},
		expected:     invocation{kind: kindHook, name: "config-changed"},
	}, {
		args:     []string{"/charm/hooks/update-status"},
		expected: invocation{kind: kindHook, name: "update-status"},
	}, {
		args:     []string{"/charm/actions/retrofit-image"},
		expected: invocation{kind: kindAction, name: "retrofit-image"},
	}, {
		dispatchPath: "hooks/install",
		args:         []string{"/charm/octavia-diskimage-retrofit", "cron", "--unit", "octavia-diskimage-retrofit/0"},
		expected:     invocation{kind: kindCron, name: kindCron},
	}} {
		c.Logf("test %d: %q %q", i, test.dispatchPath, test.args)
		inv, err := parseInvocation(test.dispatchPath, test.args)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(inv, gc.Equals, test.expected)
	}
}

func (s *dispatchSuite) TestParseCronArgs(c *gc.C) {
	c.Check(parseCronArgs(nil, "octavia-diskimage-retrofit/0"), jc.ErrorIsNil)
	c.Check(parseCronArgs([]string{"--unit", "octavia-diskimage-retrofit/0"}, "octavia-diskimage-retrofit/0"), jc.ErrorIsNil)
	c.Check(parseCronArgs([]string{"--unit", "octavia-diskimage-retrofit/0"}, ""), jc.ErrorIsNil)
}

func (s *dispatchSuite) TestParseCronArgsInvalid(c *gc.C) {
	for i, test := range []struct {
		args []string
		err  string
	}{{
		args: []string{"--debug"},
		err:  "cron arguments: flag provided but not defined: -+debug",
	}, {
		args: []string{"now"},
		err:  `cron arguments \["now"\] not valid`,
	}, {
		args: []string{"--unit", "octavia"},
		err:  `unit name "octavia" not valid`,
	}, {
		args: []string{"--unit", "octavia-diskimage-retrofit/1"},
		err:  `cron job of unit "octavia-diskimage-retrofit/1" run as "octavia-diskimage-retrofit/0" not valid`,
	}} {
		c.Logf("test %d: %q", i, test.args)
		err := parseCronArgs(test.args, "octavia-diskimage-retrofit/0")
		c.Check(err, jc.ErrorIs, errors.NotValid)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *dispatchSuite) TestParseInvocationInvalid(c *gc.C) {
	_, err := parseInvocation("metrics/collect", []string{"./dispatch"})
	c.Assert(err, jc.ErrorIs, errors.NotValid)

	_, err = parseInvocation("", nil)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
}

func (s *dispatchSuite) TestDispatchHooks(c *gc.C) {
	for hook, method := range map[string]string{
		"install":                               "Install",
		"start":                                 "AssessStatus",
		"config-changed":                        "ConfigChanged",
		"leader-elected":                        "LeaderElected",
		"leader-settings-changed":               "LeaderSettingsChanged",
		"upgrade-charm":                         "UpgradeCharm",
		"update-status":                         "UpdateStatus",
		"stop":                                  "Stop",
		"identity-credentials-relation-joined":  "IdentityCredentialsJoined",
		"identity-credentials-relation-changed": "IdentityCredentialsChanged",
	} {
		h := &recordingHandler{}
		err := dispatch(context.Background(), h, h, invocation{kind: kindHook, name: hook})
		c.Assert(err, jc.ErrorIsNil)
		c.Check(h.calls, jc.DeepEquals, []string{method}, gc.Commentf("hook %s", hook))
	}
}

func (s *dispatchSuite) TestDispatchUnknownHookIgnored(c *gc.C) {
	h := &recordingHandler{}
	err := dispatch(context.Background(), h, h, invocation{kind: kindHook, name: "secret-changed"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(h.calls, gc.HasLen, 0)
}

func (s *dispatchSuite) TestDispatchAction(c *gc.C) {
	h := &recordingHandler{}
	err := dispatch(context.Background(), h, h, invocation{kind: kindAction, name: "retrofit-image"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(h.calls, jc.DeepEquals, []string{"RetrofitAction"})
}

func (s *dispatchSuite) TestDispatchUndefinedAction(c *gc.C) {
	h := &recordingHandler{}
	err := dispatch(context.Background(), h, h, invocation{kind: kindAction, name: "make-coffee"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(h.calls, jc.DeepEquals, []string{"ActionFail Action make-coffee is undefined"})
}

func (s *dispatchSuite) TestDispatchCron(c *gc.C) {
	h := &recordingHandler{}
	err := dispatch(context.Background(), h, h, invocation{kind: kindCron, name: kindCron})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(h.calls, jc.DeepEquals, []string{"CronRetrofit"})
}

func (s *dispatchSuite) TestDispatchError(c *gc.C) {
	h := &recordingHandler{err: errors.New("boom")}
	err := dispatch(context.Background(), h, h, invocation{kind: kindHook, name: "install"})
	c.Assert(err, gc.ErrorMatches, "boom")
}
