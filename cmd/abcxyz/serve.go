package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/ozon-abcxyz/pkg/pipeline"
	"github.com/Sternrassler/ozon-abcxyz/pkg/server"
	"github.com/spf13/cobra"
)

type ServeCmd struct {
	root *rootOptions
	addr string
}

func NewServeCmd(root *rootOptions) *cobra.Command {
	sc := &ServeCmd{root: root}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func (sc *ServeCmd) run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, rdb, logger, err := sc.root.setup(ctx)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	addr := cfg.Server.Addr
	if sc.addr != "" {
		addr = sc.addr
	}

	api := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Runner: &pipeline.Runner{Config: cfg.PipelineConfig(rdb)},
			Logger: logger.With().Str("component", "server").Logger(),
		},
	})

	return api.Start(ctx)
}
