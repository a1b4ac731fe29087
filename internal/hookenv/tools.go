// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/proxy"
)

var logger = loggo.GetLogger("octavia.retrofit.hookenv")

// Environment variables set by the unit agent.
const (
	EnvUnitName     = "JUJU_UNIT_NAME"
	EnvCharmDir     = "JUJU_CHARM_DIR"
	EnvDispatchPath = "JUJU_DISPATCH_PATH"
	EnvActionName   = "JUJU_ACTION_NAME"

	EnvHTTPProxy  = "JUJU_CHARM_HTTP_PROXY"
	EnvHTTPSProxy = "JUJU_CHARM_HTTPS_PROXY"
	EnvFTPProxy   = "JUJU_CHARM_FTP_PROXY"
	EnvNoProxy    = "JUJU_CHARM_NO_PROXY"
)

// Runner runs a hook tool and returns its standard output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(name string, args ...string) ([]byte, error)

// Run implements Runner.
func (f RunnerFunc) Run(name string, args ...string) ([]byte, error) {
	return f(name, args...)
}

// ExecRunner runs hook tools found on the PATH of the hook.
var ExecRunner Runner = RunnerFunc(func(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Annotatef(err, "%s: %s", name, msg)
		}
		return nil, errors.Annotate(err, name)
	}
	return out, nil
})

// Tools implements Context on top of the hook tools.
type Tools struct {
	runner Runner
	getenv func(string) string
}

// NewTools returns a Tools using runner and the given environment lookup.
// Nil arguments select ExecRunner and os.Getenv.
func NewTools(runner Runner, getenv func(string) string) *Tools {
	if runner == nil {
		runner = ExecRunner
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Tools{runner: runner, getenv: getenv}
}

var _ Context = (*Tools)(nil)

// UnitName implements Context.
func (t *Tools) UnitName() string {
	return t.getenv(EnvUnitName)
}

// CharmDir implements Context.
func (t *Tools) CharmDir() string {
	if dir := t.getenv(EnvCharmDir); dir != "" {
		return dir
	}
	return t.getenv("CHARM_DIR")
}

// IsLeader implements Context.
func (t *Tools) IsLeader() (bool, error) {
	var leader bool
	err := t.runJSON(&leader, "is-leader", "--format=json")
	return leader, errors.Trace(err)
}

// ConfigGet implements Context.
func (t *Tools) ConfigGet() (map[string]interface{}, error) {
	values := make(map[string]interface{})
	if err := t.runJSON(&values, "config-get", "--all", "--format=json"); err != nil {
		return nil, errors.Trace(err)
	}
	return values, nil
}

// StatusSet implements Context.
func (t *Tools) StatusSet(status Status, message string) error {
	return t.run("status-set", string(status), message)
}

// ApplicationVersionSet implements Context.
func (t *Tools) ApplicationVersionSet(version string) error {
	return t.run("application-version-set", version)
}

// ActionGet implements Context.
func (t *Tools) ActionGet() (map[string]interface{}, error) {
	values := make(map[string]interface{})
	if err := t.runJSON(&values, "action-get", "--format=json"); err != nil {
		return nil, errors.Trace(err)
	}
	return values, nil
}

// ActionSet implements Context.
func (t *Tools) ActionSet(values map[string]string) error {
	return t.run("action-set", keyValues(values)...)
}

// ActionFail implements Context.
func (t *Tools) ActionFail(message string) error {
	return t.run("action-fail", message)
}

// RelationIDs implements Context.
func (t *Tools) RelationIDs(name string) ([]string, error) {
	var ids []string
	err := t.runJSON(&ids, "relation-ids", "--format=json", name)
	return ids, errors.Trace(err)
}

// RelationList implements Context.
func (t *Tools) RelationList(relationID string) ([]string, error) {
	var units []string
	err := t.runJSON(&units, "relation-list", "--format=json", "-r", relationID)
	return units, errors.Trace(err)
}

// RelationGet implements Context. All settings of unit are returned.
func (t *Tools) RelationGet(relationID, unit string) (map[string]string, error) {
	settings := make(map[string]string)
	if err := t.runJSON(&settings, "relation-get", "--format=json", "-r", relationID, "-", unit); err != nil {
		return nil, errors.Trace(err)
	}
	return settings, nil
}

// RelationSet implements Context.
func (t *Tools) RelationSet(relationID string, values map[string]string) error {
	return t.run("relation-set", append([]string{"-r", relationID}, keyValues(values)...)...)
}

// Log implements Context.
func (t *Tools) Log(level loggo.Level, message string) error {
	return t.run("juju-log", "-l", level.String(), message)
}

// ProxySettings implements Context.
func (t *Tools) ProxySettings() proxy.Settings {
	return proxy.Settings{
		Http:    t.getenv(EnvHTTPProxy),
		Https:   t.getenv(EnvHTTPSProxy),
		Ftp:     t.getenv(EnvFTPProxy),
		NoProxy: t.getenv(EnvNoProxy),
	}
}

func (t *Tools) run(name string, args ...string) error {
	_, err := t.runner.Run(name, args...)
	return errors.Trace(err)
}

func (t *Tools) runJSON(out interface{}, name string, args ...string) error {
	data, err := t.runner.Run(name, args...)
	if err != nil {
		return errors.Trace(err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Annotatef(err, "decoding %s output", name)
	}
	return nil
}

// keyValues returns key=value arguments in key order.
func keyValues(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, len(keys))
	for i, k := range keys {
		args[i] = k + "=" + values[k]
	}
	return args
}
