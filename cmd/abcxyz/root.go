package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Sternrassler/ozon-abcxyz/pkg/config"
	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootOptions are shared by all subcommands.
type rootOptions struct {
	configFile string
	envFile    string
	stdout     io.Writer
	stderr     io.Writer
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "abcxyz",
		Short:         "ABC/XYZ classification of Ozon SKUs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.AddCommand(NewReportCmd(opts))
	cmd.AddCommand(NewServeCmd(opts))

	return cmd
}

// setup loads and validates configuration, configures logging and connects
// to Redis when configured. The returned Redis client may be nil.
func (o *rootOptions) setup(ctx context.Context) (*config.Config, *redis.Client, zerolog.Logger, error) {
	cfg, err := config.Load(o.configFile, o.envFile)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = o.stderr
	logger := logging.Setup(logCfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, logger, fmt.Errorf("invalid configuration: %w", err)
	}

	rdb := cfg.NewRedisClient()
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, logger, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	return cfg, rdb, logger, nil
}
