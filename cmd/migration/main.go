package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
	"gitlab.com/dirk.krummacker/person-service/internal/database"
	"gitlab.com/dirk.krummacker/person-service/internal/logging"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go up
func main() {
	envFile := flag.String("env", ".env", "the dotenv file to read settings from")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel, "text")
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not set up logging:", err)
		os.Exit(1)
	}

	m, err := database.NewMigrator(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("migration init failed")
	}
	err = execute(m, log, args)
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.WithError(errors.Join(srcErr, dbErr)).Warn("could not close migration")
	}
	if err != nil {
		log.WithError(err).Error("migration failed")
		os.Exit(1)
	}
}

func execute(m *migrate.Migrate, log logrus.FieldLogger, args []string) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
		log.Info("migrations: up completed")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
		log.WithField("steps", steps).Info("migrations: down completed")

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("version: %w", err)
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			return errors.New("force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
		log.WithField("version", v).Info("migrations: forced")

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migration [-env FILE] <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print the current migration version
  force <V>    Set the migration version without running migrations (clears the dirty state)

The database connection is configured by DBHOST, DBUSER, DBPWD and DBNAME.`)
}
