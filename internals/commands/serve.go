package commands

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"

	database "library_backend/internals/databases"
	borrowScheduler "library_backend/internals/features/borrowing/scheduler"
	authScheduler "library_backend/internals/features/users/auth/scheduler"
	"library_backend/internals/middlewares"
	"library_backend/internals/middlewares/logger"
	routes "library_backend/internals/route"
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if autoMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}

			svc := routes.NewServices(db, cfg)
			app := routes.NewApp(svc, cfg,
				logger.LoggerMiddleware(cfg.Timezone),
				compress.New(compress.Config{Level: compress.LevelDefault}),
				etag.New(),
				middlewares.GlobalRateLimiter(),
			)

			app.Server().ReadTimeout = 15 * time.Second
			app.Server().WriteTimeout = 30 * time.Second
			app.Server().IdleTimeout = 90 * time.Second

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// ⏱ schedulers once the DB is ready
			borrowScheduler.StartOverdueScheduler(ctx, svc.Ledger, cfg.OverdueSweepInterval)
			authScheduler.StartBlacklistCleanupScheduler(ctx, db, cfg.BlacklistTTLDays)

			errCh := make(chan error, 1)
			go func() {
				log.Printf("✅ Listening on :%s", cfg.Port)
				errCh <- app.Listen("0.0.0.0:" + cfg.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Println("🛑 Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Run the schema migration before serving")
	return cmd
}
