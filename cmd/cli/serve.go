package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/config"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/controllers"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/server"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/version"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/bundle"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the classification HTTP server",
		Long: `Start the HTTP server. The model bundle loads in the background;
scoring endpoints answer 503 until the load completes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	applyLogLevel(cfg.LogLevel)

	registry := domain.NewProfileRegistry(domain.ProfileRegistryDependencies{
		SystemProfile: cfg.SystemProfile,
	})
	resolver := domain.NewThresholdResolver(domain.ThresholdResolverDependencies{
		Registry: registry,
		Override: cfg.ThresholdOverride,
	})

	controller := controllers.NewClassifierController(controllers.ClassifierControllerDependencies{
		Registry: registry,
		Resolver: resolver,
		MaxBatch: cfg.MaxBatch,
	})

	log.Info().
		Str("version", version.GetVersion()).
		Str("system_profile", registry.Default().Key).
		Float64("spam_threshold", resolver.DefaultThreshold()).
		Int("max_batch", cfg.MaxBatch).
		Msg("Starting spam detector")

	// Requests arriving before the load completes get 503, not a hung
	// connection. An invalid bundle is fatal: the process must not serve
	// traffic with a partially loaded model.
	go func() {
		b, err := bundle.Load(cfg.ModelPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("Failed to load model bundle")
		}
		controller.SetBundle(b)
	}()

	app := server.NewHTTPServer(server.HTTPServerDependencies{
		AllowOrigins:         cfg.Origins(),
		ClassifierController: controller,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := app.Listen(cfg.HTTPAddress); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	return app.Shutdown()
}

func applyLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown LOG_LEVEL, keeping info")
		return
	}
	zerolog.SetGlobalLevel(parsed)
}
