package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	pg "pet-care-management/internal/adapters/storage/postgres"
	"pet-care-management/internal/config"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	configPath := flag.String("config", "config.yaml", "ruta al archivo YAML de configuración")
	down := flag.Bool("down", false, "revierte todas las migraciones")
	version := flag.Bool("version", false, "muestra la versión aplicada y sale")
	flag.Parse()

	if err := run(*configPath, *down, *version); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, down, showVersion bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn (DB_DSN) is required")
	}

	m, err := pg.NewMigrator(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if showVersion {
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", v, dirty)
		return nil
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	fmt.Println("ok")
	return nil
}
