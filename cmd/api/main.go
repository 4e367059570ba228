package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/erp-core/internal/bootstrap"
	httpRouter "github.com/jhoicas/erp-core/internal/interfaces/http"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	deps, closeStorage, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización del almacenamiento")
	}
	defer closeStorage()

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "ERP Core API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.FilePath).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	var metricsHandler nethttp.Handler
	if deps.Prometheus != nil {
		metricsHandler = deps.Prometheus.Handler()
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:      deps.Catalog,
		AvailabilityUC: deps.Availability,
		Ledger:         deps.Ledger,
		Statements:     deps.Statements,
		PartnerUC:      deps.Partners,
		OrderUC:        deps.Orders,
		Coordinator:    deps.Coordinator,
		MetricsHandler: metricsHandler,
		MetricsPath:    cfg.Metrics.Path,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
