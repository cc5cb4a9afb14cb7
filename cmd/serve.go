package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"entity-kit/core/loader"
	"entity-kit/core/logger"
	"entity-kit/core/middleware/auth"
	"entity-kit/core/middleware/rayid"
	"entity-kit/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "entity-kit/docs/swagger"
)

// @title entity-kit Catalog API
// @version 1.0
// @description Catalog of authors, books and shelves kept in sync by the entity helpers.
// @host localhost:8080
// @BasePath /

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog HTTP server",
	Long:  `Migrates the catalog tables, then serves the catalog API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		logg := a.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := a.repo.Migrate(cmd.Context()); err != nil {
			return err
		}

		app := newServer(a)

		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
		defer cancel()
		return app.ShutdownWithContext(ctx)
	},
}

// newServer builds the Fiber application with middleware and features.
func newServer(a *app) *fiber.App {
	logg := a.log
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	mgr := loader.NewManager()
	mgr.Register(catalog.NewFeature(a.service, logg))
	if err := mgr.LoadAll(app); err != nil {
		logg.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
