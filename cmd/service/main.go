package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gitlab.com/dirk.krummacker/person-service/internal/api"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
	"gitlab.com/dirk.krummacker/person-service/internal/database"
	"gitlab.com/dirk.krummacker/person-service/internal/logging"
	"gitlab.com/dirk.krummacker/person-service/internal/repository"
	"gitlab.com/dirk.krummacker/person-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	envFile := flag.String("env", envOr("ENV_FILE", ".env"), "the dotenv file to read settings from")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not set up logging:", err)
		os.Exit(1)
	}
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("person service stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	if cfg.MigrateOnStartup {
		// The service keeps running on an outdated schema; requests will fail until it is fixed.
		if err := database.Migrate(cfg, log); err != nil {
			log.WithError(err).Error("database migration failed")
		}
	}

	sqlDB, err := database.CreateDatabase(cfg)
	if err != nil {
		return err
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	repo, err := repository.NewPersonRepository(db)
	if err != nil {
		return err
	}
	defer repo.Close()

	if !cfg.RequestLogging() {
		log.Info("Turning off HTTP request logging.")
	}
	if cfg.Diagnostic() {
		gin.SetMode(gin.DebugMode)
		log.Warn("diagnostic mode: internal error details are sent to clients")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupHttpRouter(service.NewPersonService(repo), log, api.Options{
		Diagnostic:      cfg.Diagnostic(),
		RequestLogging:  cfg.RequestLogging(),
		AllowedOrigins:  cfg.CORSOrigins,
		ListCacheMaxAge: cfg.ListCacheMaxAge,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("person service listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func envOr(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
