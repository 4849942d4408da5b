package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	appDirName = "OpenWeather"
	fileName   = "config.toml"
)

var (
	// ErrNotFound is returned if the config file is absent or can't be read.
	ErrNotFound = errors.New("unable to open config file; did you run `openweather init`?")
	// ErrMalformed is returned if the config file can't be parsed.
	ErrMalformed = errors.New("malformed config file")
	// ErrEmptyKey is returned if the config doesn't carry an api key.
	ErrEmptyKey = errors.New("empty api key")
	// ErrWriteFailed is returned if the config file can't be written.
	ErrWriteFailed = errors.New("unable to write config file")
	// ErrDirectoryCreate is returned if the config directory can't be created.
	ErrDirectoryCreate = errors.New("unable to create config directory")
	// ErrNoConfigDir is returned if the platform doesn't define a per-user config directory.
	ErrNoConfigDir = errors.New("no valid config directory")
)

var knownKeys = map[string]bool{
	"api_key":       true,
	"geometry_mode": true,
	"minutely":      true,
	"hourly":        true,
	"daily":         true,
}

// Store persists the config as TOML in a single per-user directory.
type Store struct {
	logger *zap.Logger
	locate func() (string, error)
}

// NewStore creates a store rooted at the supplied directory.
func NewStore(logger *zap.Logger, dir string) *Store {
	return &Store{
		logger: logger,
		locate: func() (string, error) {
			return dir, nil
		},
	}
}

// NewDefaultStore creates a store in the OpenWeather directory under the platform's user config directory.
// The directory is looked up on first use.
func NewDefaultStore(logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		locate: func() (string, error) {
			base, err := os.UserConfigDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(base, appDirName), nil
		},
	}
}

// Path returns the location of the config file, creating its directory if needed.
func (s *Store) Path() (string, error) {
	dir, err := s.locate()
	if err != nil {
		return "", errors.Wrap(ErrNoConfigDir, err.Error())
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrap(ErrDirectoryCreate, err.Error())
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads and validates the config file. Keys are matched exactly; unknown keys are ignored.
func (s *Store) Load() (*Config, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug("unable to read config file",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, ErrNotFound
	}

	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	settings := map[string]interface{}{}
	for _, key := range tree.Keys() {
		if knownKeys[key] {
			settings[key] = tree.Get(key)
		}
	}

	// An empty key wins over any other problem in the file.
	switch key := settings["api_key"].(type) {
	case nil:
		return nil, ErrEmptyKey
	case string:
		if key == "" {
			return nil, ErrEmptyKey
		}
	default:
		return nil, errors.Wrapf(ErrMalformed, "api_key must be a string, got %T", key)
	}

	v := viper.New()
	v.SetDefault("minutely", false)
	v.SetDefault("hourly", false)
	v.SetDefault("daily", false)
	if err := v.MergeConfigMap(settings); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg,
		viper.DecodeHook(mapstructure.DecodeHookFuncType(geometryModeHook)),
		strictDecoding,
	)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	switch cfg.GeometryMode {
	case GeometryModeLocation, GeometryModeCity:
	case "":
		return nil, errors.Wrap(ErrMalformed, "geometry_mode is required")
	default:
		return nil, errors.Wrapf(ErrMalformed, "geometry_mode %q", cfg.GeometryMode)
	}

	s.logger.Debug("loaded config",
		zap.String("path", path),
		zap.String("geometry_mode", string(cfg.GeometryMode)),
		zap.Bool("minutely", cfg.Minutely),
		zap.Bool("hourly", cfg.Hourly),
		zap.Bool("daily", cfg.Daily),
	)
	return cfg, nil
}

// Save writes the config file, replacing any existing contents.
func (s *Store) Save(cfg *Config) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Order(toml.OrderPreserve).Encode(*cfg); err != nil {
		return errors.Wrap(ErrWriteFailed, err.Error())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return errors.Wrap(ErrWriteFailed, err.Error())
	}

	s.logger.Info("wrote config file",
		zap.String("path", path),
	)
	return nil
}

func geometryModeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(GeometryMode("")) {
		return data, nil
	}
	return ParseGeometryMode(data.(string))
}

func strictDecoding(c *mapstructure.DecoderConfig) {
	c.WeaklyTypedInput = false
}
