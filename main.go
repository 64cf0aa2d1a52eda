package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"recipe-catalog/cmd/config"
	"recipe-catalog/cmd/database"
	migration "recipe-catalog/cmd/database/migrate"
	"recipe-catalog/internal/utils"
	"recipe-catalog/internal/utils/storage"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var closeDatabase = database.Close

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

// run serves until ctx is cancelled. Everything it opens is closed before it
// returns, including on startup failures.
func run(ctx context.Context) error {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer func() {
		if err := closeDatabase(db); err != nil {
			log.Errorf("error closing database: %v", err)
		}
	}()

	if err := migration.Migrate(db); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	images, err := storage.NewImageSink(ctx)
	if err != nil {
		return fmt.Errorf("error setting up image storage: %w", err)
	}

	accessLog, logFile, err := config.OpenAccessLog()
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer logFile.Close()

	app := config.NewApp(db, images, accessLog)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("error shutting down server: %v", err)
		}
	}()

	addr := ":" + utils.GetConfig("APP_PORT")
	log.Infof("listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
