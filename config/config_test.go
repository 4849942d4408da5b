package config

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type parseGeometryModeTest struct {
	name   string
	text   string
	result GeometryMode
	err    error
}

var parseGeometryModeTests = []parseGeometryModeTest{
	{"location", "location", GeometryModeLocation, nil},
	{"location capitalized", "Location", GeometryModeLocation, nil},
	{"location legacy alias", "v2.5", GeometryModeLocation, nil},
	{"city", "city", GeometryModeCity, nil},
	{"city upper case", "CITY", GeometryModeCity, nil},
	{"city legacy alias", "v3.0", GeometryModeCity, nil},
	{"unknown", "zip", "", ErrUnknownGeometryMode},
	{"empty", "", "", ErrUnknownGeometryMode},
}

func TestParseGeometryMode(t *testing.T) {
	for _, tt := range parseGeometryModeTests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseGeometryMode(tt.text)
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, tt.result, res)
		})
	}
}

func TestGeometryModeFlagValue(t *testing.T) {
	var mode GeometryMode
	assert.NoError(t, mode.Set("v3.0"))
	assert.Equal(t, GeometryModeCity, mode)
	assert.Equal(t, "city", mode.String())

	assert.Error(t, mode.Set("nowhere"))
	assert.Equal(t, GeometryModeCity, mode)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, &Config{GeometryMode: GeometryModeLocation}, cfg)
	assert.True(t, errors.Is(cfg.Validate(), ErrEmptyKey))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func modePtr(m GeometryMode) *GeometryMode {
	return &m
}

func baseConfig() *Config {
	return &Config{
		APIKey:       "file-key",
		GeometryMode: GeometryModeLocation,
		Minutely:     true,
		Hourly:       false,
		Daily:        true,
	}
}

type mergeTest struct {
	name      string
	overrides Overrides
	result    *Config
	warnings  int
}

var mergeTests = []mergeTest{
	{
		"no overrides",
		Overrides{},
		baseConfig(),
		0,
	},
	{
		"api key only",
		Overrides{APIKey: strPtr("cli-key")},
		&Config{APIKey: "cli-key", GeometryMode: GeometryModeLocation, Minutely: true, Daily: true},
		1,
	},
	{
		"geometry mode only",
		Overrides{GeometryMode: modePtr(GeometryModeCity)},
		&Config{APIKey: "file-key", GeometryMode: GeometryModeCity, Minutely: true, Daily: true},
		1,
	},
	{
		"api key and geometry mode",
		Overrides{APIKey: strPtr("cli-key"), GeometryMode: modePtr(GeometryModeCity)},
		&Config{APIKey: "cli-key", GeometryMode: GeometryModeCity, Minutely: true, Daily: true},
		2,
	},
	{
		"minutely and hourly",
		Overrides{Minutely: boolPtr(false), Hourly: boolPtr(true)},
		&Config{APIKey: "file-key", GeometryMode: GeometryModeLocation, Hourly: true, Daily: true},
		0,
	},
	{
		"hourly and daily",
		Overrides{Hourly: boolPtr(true), Daily: boolPtr(false)},
		&Config{APIKey: "file-key", GeometryMode: GeometryModeLocation, Minutely: true, Hourly: true},
		0,
	},
	{
		"api key and daily",
		Overrides{APIKey: strPtr("cli-key"), Daily: boolPtr(false)},
		&Config{APIKey: "cli-key", GeometryMode: GeometryModeLocation, Minutely: true},
		1,
	},
	{
		"everything",
		Overrides{
			APIKey:       strPtr("cli-key"),
			GeometryMode: modePtr(GeometryModeCity),
			Minutely:     boolPtr(false),
			Hourly:       boolPtr(true),
			Daily:        boolPtr(false),
		},
		&Config{APIKey: "cli-key", GeometryMode: GeometryModeCity, Hourly: true},
		2,
	},
}

func TestMerge(t *testing.T) {
	for _, tt := range mergeTests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			cfg := baseConfig()
			cfg.Merge(zap.New(core), tt.overrides)
			assert.Equal(t, tt.result, cfg)
			assert.Equal(t, tt.warnings, logs.Len())
		})
	}
}

func TestMergeEmptyAPIKeyFailsValidation(t *testing.T) {
	cfg := baseConfig()
	cfg.Merge(zaptest.NewLogger(t), Overrides{APIKey: strPtr("")})
	assert.True(t, errors.Is(cfg.Validate(), ErrEmptyKey))
}
