package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inventory-sync/core/codec"
	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/logger"
	"inventory-sync/core/middleware/auth"
	"inventory-sync/core/middleware/requestid"
	"inventory-sync/core/storage"
	"inventory-sync/feature/ingest"
	"inventory-sync/feature/ingest/mapper"
	"inventory-sync/feature/ingest/tracker"
	"inventory-sync/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and sync spreadsheet changes",
	Long: `Starts the file watcher, processes every spreadsheet change in the
configured directory, and serves the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// 3. Connect to the catalog database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Assemble the ingestion engine
		engine, cleanup, err := buildEngine(ctx, cfg, db, logg)
		if err != nil {
			logg.Fatal("Failed to assemble engine", zap.Error(err))
		}
		defer cleanup()

		// 5. Start the directory watcher
		watcher := ingest.NewWatcher(engine, cfg.Watcher.Dir, logg)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logg.Fatal("Watcher stopped", zap.Error(err))
			}
		}()

		// 6. Serve the HTTP API
		var app *fiber.App
		if cfg.Server.Enabled {
			app = newApp(cfg, engine, db, logg)
			go func() {
				logg.Info("Starting server", zap.String("port", cfg.Server.Port))
				if err := app.Listen(":" + cfg.Server.Port); err != nil {
					logg.Fatal("Server failed to start", zap.Error(err))
				}
			}()
		}

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		cancel()
		if app != nil {
			_ = app.Shutdown()
		}
	},
}

// newApp wires the fiber application: request tagging, request
// logging, the API-key guard, then the ingestion routes.
func newApp(cfg *config.Config, engine *ingest.Engine, db *gorm.DB, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRequestID(logg, c)
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
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	store := inventory.NewStore(db)
	handler := ingest.NewHandler(engine, store, cfg.Watcher.Dir, logg)
	handler.RegisterRoutes(app)
	return app
}

// buildEngine constructs the engine with its optional collaborators:
// the column-inference oracle when an API key is configured, and the
// archive bucket when archiving is enabled.
func buildEngine(ctx context.Context, cfg *config.Config, db *gorm.DB, logg *zap.Logger) (*ingest.Engine, func(), error) {
	cleanup := func() {}

	var oracle mapper.FieldMapper
	if cfg.Mapper.APIKey != "" {
		o, err := mapper.NewOracle(ctx, cfg.Mapper, logg)
		if err != nil {
			return nil, cleanup, err
		}
		oracle = o
		cleanup = func() { _ = o.Close() }
		logg.Info("column-inference oracle enabled", zap.String("model", cfg.Mapper.Model))
	}

	resolver, err := mapper.NewResolver(cfg.Mapper, oracle, logg)
	if err != nil {
		return nil, cleanup, err
	}

	tr := tracker.New(cfg.Watcher.SkipWindow(), cfg.Watcher.ReprocessWindow(), cfg.Watcher.MaxTracked)
	store := inventory.NewStore(db)
	engine := ingest.NewEngine(cfg.Watcher, tr, resolver, codec.NewExcel(), store, logg)

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, cleanup, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, cleanup, err
		}
		engine.WithArchive(client, cfg.Storage.Bucket)
		logg.Info("archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	return engine, cleanup, nil
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
