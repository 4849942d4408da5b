package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmrobinson/openweather/cli"
	"github.com/rmrobinson/openweather/config"
	"github.com/rmrobinson/openweather/query"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envVarLogLevel = "LOG_LEVEL"
	envVarEditor   = "editor"

	requestTimeout = 15 * time.Second
)

var version = "dev"

func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	viper.SetEnvPrefix("OPENWEATHER")
	viper.BindEnv(envVarLogLevel)
	viper.BindEnv(envVarEditor, "EDITOR")

	logger, err := newLogger(viper.GetString(envVarLogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cmd, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n%s", err, cli.Usage())
		os.Exit(2)
	}

	httpClient := &http.Client{
		Timeout: requestTimeout,
	}

	d := cli.NewDispatcher(logger,
		config.NewDefaultStore(logger),
		query.NewResolver(logger, httpClient, query.DefaultGeolocationEndpoint),
		query.NewFetcher(logger, httpClient, query.DefaultWeatherBaseURL),
		cli.NewExecEditor(logger, viper.GetString(envVarEditor), os.Stdin, os.Stdout, os.Stderr),
		os.Stdout,
		version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = d.Run(ctx, cmd)
	stop()
	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
