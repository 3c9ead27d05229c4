package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/noah-isme/student-service/pkg/config"
	"github.com/noah-isme/student-service/pkg/database"
	"github.com/noah-isme/student-service/pkg/logger"
)

func main() {
	var (
		command = flag.String("command", "", "up, down, version or force")
		steps   = flag.Int("steps", 0, "number of steps for up/down (down defaults to 1)")
		version = flag.Int("version", -1, "target version for force")
		dir     = flag.String("dir", "migrations", "directory holding the SQL files")
	)
	flag.Parse()

	if *command == "" {
		fmt.Fprintln(os.Stderr, "usage: migrate -command up|down|version|force [-steps N] [-version N] [-dir migrations]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(context.Background(), cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		logr.Fatal("failed to create migration driver", zap.Error(err))
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+*dir, "postgres", driver)
	if err != nil {
		logr.Fatal("failed to open migrations", zap.String("dir", *dir), zap.Error(err))
	}

	if err := run(m, *command, *steps, *version); err != nil {
		logr.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}

	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logr.Info("migration finished", zap.String("command", *command), zap.String("version", "none"))
	case err != nil:
		logr.Fatal("failed to read version", zap.Error(err))
	default:
		logr.Info("migration finished", zap.String("command", *command), zap.Uint("version", v), zap.Bool("dirty", dirty))
	}
}

func run(m *migrate.Migrate, command string, steps, version int) error {
	var err error
	switch command {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps <= 0 {
			steps = 1
		}
		err = m.Steps(-steps)
	case "version":
		return nil
	case "force":
		if version < 0 {
			return errors.New("force requires -version")
		}
		return m.Force(version)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
