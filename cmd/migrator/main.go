package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/farmlink/marketplace/cmd/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "migrations-path", "migrations", "path to the migrations directory")
	flag.Parse()

	cfg := config.Load()

	m, err := migrate.New(
		"file://"+migrationsPath,
		fmt.Sprintf("mysql://%s", cfg.GetDSN()),
	)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no migrations to apply")
			return
		}
		log.Fatalf("failed to apply migrations: %v", err)
	}

	log.Println("migrations applied")
}
