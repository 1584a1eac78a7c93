package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/server"
	"github.com/vzahanych/weather-lookup/internal/server/handlers"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the weather lookup over a local HTTP/JSON API",
		Long: `Starts an HTTP server exposing search, geolocation, unit toggling and the
recent cities list as JSON endpoints. All clients share one display.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *config.GetConfig()
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServer(cmd.Context(), &cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen address (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting weather lookup server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("server_port", cfg.Server.Port))

	state := present.NewState(time.Duration(cfg.Display.MessageTTL) * time.Second)
	httpMetrics := middlewares.NewHTTPMetrics()
	metrics := handlers.NewMetricsHandler(httpMetrics, log.Logger)

	a, err := newApp(ctx, state, appOptions{needAPIKey: true, metrics: metrics})
	if err != nil {
		return err
	}
	defer a.Close()

	a.session.Start(ctx)

	srv := server.New(cfg.Server, server.Deps{
		Session:     a.session,
		State:       state,
		Store:       a.store,
		Metrics:     metrics,
		HTTPMetrics: httpMetrics,
		Logger:      log.Logger,
		Telemetry:   tele,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
