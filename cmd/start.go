package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"db-validator/core/loader"
	"db-validator/core/logger"
	"db-validator/core/middleware/auth"
	"db-validator/core/middleware/rayid"
	"db-validator/feature/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "db-validator/docs/swagger"
)

// @title DB Validator API
// @version 1.0
// @description API for reconciling tables between a record and a replica database.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the validation server",
	Long: `Starts the HTTP server, runs a comparison on start when configured and
schedules periodic comparisons when validator.interval is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, logger, both databases and the service
		rt, err := newRuntime(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer rt.Close()
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(validation.NewFeature(rt.service))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
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

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (health stays public for probes)
		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Skip:   []string{"/validation/health"},
		}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Scheduled comparisons
		go rt.service.Schedule(ctx, rt.cfg.Validator.Interval, rt.cfg.Validator.RunOnStart)

		// 6. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("address", rt.cfg.Server.Address()),
				zap.Bool("auth", rt.cfg.Server.AuthEnabled()))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
