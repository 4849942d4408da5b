package cli

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rmrobinson/openweather/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseTest struct {
	name   string
	args   []string
	result *Command
	err    error
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func modePtr(m config.GeometryMode) *config.GeometryMode {
	return &m
}

var parseTests = []parseTest{
	{
		"query without flags",
		[]string{"query"},
		&Command{Mode: ModeQuery},
		nil,
	},
	{
		"query alias",
		[]string{"q", "--hourly"},
		&Command{Mode: ModeQuery, Overrides: config.Overrides{Hourly: boolPtr(true)}},
		nil,
	},
	{
		"query with every flag",
		[]string{"query", "--api-key", "K", "--mode", "city", "--minutely", "--hourly=false", "--daily=true"},
		&Command{Mode: ModeQuery, Overrides: config.Overrides{
			APIKey:       strPtr("K"),
			GeometryMode: modePtr(config.GeometryModeCity),
			Minutely:     boolPtr(true),
			Hourly:       boolPtr(false),
			Daily:        boolPtr(true),
		}},
		nil,
	},
	{
		"query with legacy mode alias",
		[]string{"query", "--mode=v2.5"},
		&Command{Mode: ModeQuery, Overrides: config.Overrides{GeometryMode: modePtr(config.GeometryModeLocation)}},
		nil,
	},
	{
		"query with empty api key",
		[]string{"query", "--api-key="},
		&Command{Mode: ModeQuery, Overrides: config.Overrides{APIKey: strPtr("")}},
		nil,
	},
	{
		"toggles with separate values",
		[]string{"q", "--hourly", "false", "--daily", "True", "--minutely"},
		&Command{Mode: ModeQuery, Overrides: config.Overrides{
			Minutely: boolPtr(true),
			Hourly:   boolPtr(false),
			Daily:    boolPtr(true),
		}},
		nil,
	},
	{
		"toggle followed by a non-boolean",
		[]string{"query", "--hourly", "paris"},
		nil,
		ErrUsage,
	},
	{
		"edit",
		[]string{"edit"},
		&Command{Mode: ModeEditConfig},
		nil,
	},
	{
		"edit aliases",
		[]string{"init"},
		&Command{Mode: ModeEditConfig},
		nil,
	},
	{
		"help",
		[]string{"--help"},
		&Command{Mode: ModeHelp},
		nil,
	},
	{
		"query help",
		[]string{"query", "-h"},
		&Command{Mode: ModeHelp},
		nil,
	},
	{
		"version",
		[]string{"-V"},
		&Command{Mode: ModeVersion},
		nil,
	},
	{
		"no subcommand",
		nil,
		nil,
		ErrUsage,
	},
	{
		"unknown subcommand",
		[]string{"forecast"},
		nil,
		ErrUsage,
	},
	{
		"unknown mode",
		[]string{"query", "--mode", "zip"},
		nil,
		ErrUsage,
	},
	{
		"unknown flag",
		[]string{"query", "--weekly"},
		nil,
		ErrUsage,
	},
	{
		"edit takes no flags",
		[]string{"edit", "--hourly"},
		nil,
		ErrUsage,
	},
	{
		"stray argument",
		[]string{"query", "paris"},
		nil,
		ErrUsage,
	},
}

func TestParse(t *testing.T) {
	for _, tt := range parseTests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.args)
			assert.True(t, errors.Is(err, tt.err), "unexpected error: %v", err)
			assert.Equal(t, tt.result, res)
		})
	}
}

func TestParseEditAliases(t *testing.T) {
	for _, alias := range []string{"edit", "e", "config", "init"} {
		res, err := Parse([]string{alias})
		require.NoError(t, err)
		assert.Equal(t, ModeEditConfig, res.Mode)
	}
}

func TestUsageListsQueryFlags(t *testing.T) {
	u := Usage()
	for _, flag := range []string{"--api-key", "--mode", "--minutely", "--hourly", "--daily"} {
		assert.Contains(t, u, flag)
	}
}

func TestJoinBoolValues(t *testing.T) {
	assert.Equal(t,
		[]string{"--hourly=false", "--api-key", "true", "--daily=true", "--", "--minutely", "false"},
		joinBoolValues([]string{"--hourly", "FALSE", "--api-key", "true", "--daily", "true", "--", "--minutely", "false"}),
	)
}
