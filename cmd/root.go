package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	unitsFlag  string

	log  *logger.Logger
	tele *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Look up current weather and a short forecast by city or location",
		Long: `Looks up current conditions and a five-day forecast from OpenWeatherMap,
either for a city name or for your current position, and remembers the last
few cities you searched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")
	cmd.PersistentFlags().StringVarP(&unitsFlag, "units", "u", "", "unit system: metric or imperial (overrides config)")

	cmd.AddCommand(searchCmd())
	cmd.AddCommand(hereCmd())
	cmd.AddCommand(recentsCmd())
	cmd.AddCommand(shellCmd())
	cmd.AddCommand(serverCmd())

	return cmd
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	shutdownServices()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func initializeServices(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if unitsFlag != "" {
		cfg.Units = unitsFlag
	}
	if _, err := models.ParseUnits(cfg.Units); err != nil {
		return err
	}

	// Having config in atomic allows changing it during runtime
	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
	}

	return nil
}

func shutdownServices() {
	if err := tele.Shutdown(context.Background()); err != nil && log != nil {
		log.Warn("Failed to shut down telemetry", zap.Error(err))
	}
	if log != nil {
		_ = log.Sync()
	}
}
