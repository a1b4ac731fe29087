// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package schedule

import (
	"bytes"
	_ "embed"
	"os"
	"text/template"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
	"github.com/juju/utils/v4"
)

// DefaultJujuExec runs a command in the hook context of a unit.
const DefaultJujuExec = "/usr/bin/juju-exec"

//go:embed templates/auto-retrofit.sh.tmpl
var wrapperTemplate string

var wrapper = template.Must(template.New("auto-retrofit").Parse(wrapperTemplate))

// WrapperParams are substituted into the wrapper script.
type WrapperParams struct {
	UnitName string
	Command  string
	JujuExec string
}

// RenderWrapper returns the shell script run by cron.
func RenderWrapper(params WrapperParams) ([]byte, error) {
	if !names.IsValidUnit(params.UnitName) {
		return nil, errors.NotValidf("unit name %q", params.UnitName)
	}
	if params.Command == "" {
		return nil, errors.NotValidf("empty command")
	}
	if params.JujuExec == "" {
		params.JujuExec = DefaultJujuExec
	}
	var buf bytes.Buffer
	if err := wrapper.Execute(&buf, params); err != nil {
		return nil, errors.Trace(err)
	}
	return buf.Bytes(), nil
}

// writeWrapper renders the script to path unless something is already
// there.
func writeWrapper(path string, params WrapperParams) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	data, err := RenderWrapper(params)
	if err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("writing cron wrapper %q", path)
	return errors.Annotatef(utils.AtomicWriteFile(path, data, 0755), "writing %q", path)
}
