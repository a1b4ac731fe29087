// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
	"github.com/juju/schema"

	"github.com/juju/octavia-diskimage-retrofit/internal/retrofit"
	"github.com/juju/octavia-diskimage-retrofit/internal/schedule"
)

// Charm option names.
const (
	OptAutoRetrofit         = "auto-retrofit"
	OptFrequency            = "frequency"
	OptRetrofitSeries       = "retrofit-series"
	OptRetrofitUCAPocket    = "retrofit-uca-pocket"
	OptDebug                = "debug"
	OptUbuntuMirror         = "ubuntu-mirror"
	OptUCAMirror            = "uca-mirror"
	OptImageFormat          = "image-format"
	OptAmpImageTag          = "amp-image-tag"
	OptRegion               = "region"
	OptUseInternalEndpoints = "use-internal-endpoints"
)

var configFields = schema.Fields{
	OptAutoRetrofit:         schema.Bool(),
	OptFrequency:            schema.String(),
	OptRetrofitSeries:       schema.String(),
	OptRetrofitUCAPocket:    schema.String(),
	OptDebug:                schema.Bool(),
	OptUbuntuMirror:         schema.String(),
	OptUCAMirror:            schema.String(),
	OptImageFormat:          schema.String(),
	OptAmpImageTag:          schema.String(),
	OptRegion:               schema.String(),
	OptUseInternalEndpoints: schema.Bool(),
}

var configDefaults = schema.Defaults{
	OptAutoRetrofit:         false,
	OptFrequency:            string(schedule.Weekly),
	OptRetrofitSeries:       "",
	OptRetrofitUCAPocket:    "",
	OptDebug:                false,
	OptUbuntuMirror:         "",
	OptUCAMirror:            "",
	OptImageFormat:          retrofit.DefaultImageFormat,
	OptAmpImageTag:          "octavia-amphora",
	OptRegion:               "",
	OptUseInternalEndpoints: false,
}

var configChecker = schema.FieldMap(configFields, configDefaults)

// Options is the validated charm configuration.
type Options struct {
	AutoRetrofit bool
	Frequency    schedule.Frequency
	Settings     retrofit.Settings
}

// ParseOptions validates the output of config-get, filling in defaults for
// anything unset.
func ParseOptions(attrs map[string]interface{}) (Options, error) {
	coerced, err := configChecker.Coerce(withoutNulls(attrs), nil)
	if err != nil {
		return Options{}, errors.NewNotValid(err, "invalid configuration")
	}
	m := coerced.(map[string]interface{})

	frequency, err := schedule.ParseFrequency(m[OptFrequency].(string))
	if err != nil {
		return Options{}, errors.Annotate(err, "invalid configuration")
	}
	return Options{
		AutoRetrofit: m[OptAutoRetrofit].(bool),
		Frequency:    frequency,
		Settings: retrofit.Settings{
			Series:               m[OptRetrofitSeries].(string),
			UCAPocket:            m[OptRetrofitUCAPocket].(string),
			Debug:                m[OptDebug].(bool),
			UbuntuMirror:         m[OptUbuntuMirror].(string),
			UCAMirror:            m[OptUCAMirror].(string),
			ImageFormat:          m[OptImageFormat].(string),
			ImageTag:             m[OptAmpImageTag].(string),
			Region:               m[OptRegion].(string),
			UseInternalEndpoints: m[OptUseInternalEndpoints].(bool),
		},
	}, nil
}

// Action parameter names.
const (
	ParamForce       = "force"
	ParamSourceImage = "source-image"
)

var actionChecker = schema.FieldMap(schema.Fields{
	ParamForce:       schema.Bool(),
	ParamSourceImage: schema.String(),
}, schema.Defaults{
	ParamForce:       false,
	ParamSourceImage: "",
})

// ActionParams are the retrofit-image action parameters.
type ActionParams struct {
	Force       bool
	SourceImage string
}

// ParseActionParams validates the output of action-get.
func ParseActionParams(attrs map[string]interface{}) (ActionParams, error) {
	coerced, err := actionChecker.Coerce(withoutNulls(attrs), nil)
	if err != nil {
		return ActionParams{}, errors.NewNotValid(err, "invalid action parameters")
	}
	m := coerced.(map[string]interface{})
	return ActionParams{
		Force:       m[ParamForce].(bool),
		SourceImage: m[ParamSourceImage].(string),
	}, nil
}

// withoutNulls drops unset options so their defaults apply.
func withoutNulls(attrs map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if v != nil {
			result[k] = v
		}
	}
	return result
}
