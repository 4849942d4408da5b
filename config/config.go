package config

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GeometryMode selects how the current location is described to the weather provider.
type GeometryMode string

const (
	// GeometryModeLocation describes the location by its coordinates.
	GeometryModeLocation GeometryMode = "location"
	// GeometryModeCity describes the location by its city name and country code.
	GeometryModeCity GeometryMode = "city"
)

var (
	// ErrUnknownGeometryMode is returned if a geometry mode alias isn't recognized.
	ErrUnknownGeometryMode = errors.New("unknown geometry mode")
)

// ParseGeometryMode maps one of the accepted aliases, case-insensitively, to a geometry mode.
func ParseGeometryMode(s string) (GeometryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "location", "v2.5":
		return GeometryModeLocation, nil
	case "city", "v3.0":
		return GeometryModeCity, nil
	}
	return "", errors.Wrapf(ErrUnknownGeometryMode, "%q", s)
}

// String implements pflag.Value.
func (m *GeometryMode) String() string {
	return string(*m)
}

// Set implements pflag.Value.
func (m *GeometryMode) Set(s string) error {
	mode, err := ParseGeometryMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Type implements pflag.Value.
func (m *GeometryMode) Type() string {
	return "location|city"
}

// Config is the persisted user configuration.
type Config struct {
	APIKey       string       `mapstructure:"api_key" toml:"api_key"`
	GeometryMode GeometryMode `mapstructure:"geometry_mode" toml:"geometry_mode"`
	Minutely     bool         `mapstructure:"minutely" toml:"minutely"`
	Hourly       bool         `mapstructure:"hourly" toml:"hourly"`
	Daily        bool         `mapstructure:"daily" toml:"daily"`
}

// Default returns the configuration written on first initialization.
func Default() *Config {
	return &Config{
		GeometryMode: GeometryModeLocation,
	}
}

// Validate checks that the config can be used to query the weather.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrEmptyKey
	}
	return nil
}

// Overrides carries the values supplied on the command line. Nil fields are left untouched by Merge.
type Overrides struct {
	APIKey       *string
	GeometryMode *GeometryMode
	Minutely     *bool
	Hourly       *bool
	Daily        *bool
}

// Merge replaces every config field that has an override present.
func (c *Config) Merge(logger *zap.Logger, o Overrides) {
	if o.APIKey != nil {
		logger.Warn("api key should be set in the config file")
		c.APIKey = *o.APIKey
	}
	if o.GeometryMode != nil {
		logger.Warn("geometry mode should be set in the config file",
			zap.String("geometry_mode", string(*o.GeometryMode)),
		)
		c.GeometryMode = *o.GeometryMode
	}
	if o.Minutely != nil {
		c.Minutely = *o.Minutely
	}
	if o.Hourly != nil {
		c.Hourly = *o.Hourly
	}
	if o.Daily != nil {
		c.Daily = *o.Daily
	}
}
