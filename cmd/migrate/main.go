package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"gonadarena/internal/config"
	"gonadarena/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, relying on environment")
	}

	command := flag.String("command", "up", "Migration command: up, down, down-to, status, create")
	name := flag.String("name", "", "Migration name (required for create)")
	targetVersion := flag.Int64("version", 0, "Target version for down-to command")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	cfg := config.Load()

	db, err := open(cfg.Database, *command == "up")
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	if err := run(db, *command, *migrationsDir, *name, *targetVersion); err != nil {
		log.Fatalf("%s failed: %v", *command, err)
	}
}

func run(db *sql.DB, command, dir, name string, version int64) error {
	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return err
		}
		log.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return err
		}
		log.Println("Migrations rolled back successfully")
	case "down-to":
		if err := goose.DownTo(db, dir, version); err != nil {
			return err
		}
		log.Printf("Migrations rolled back to version %d successfully", version)
	case "status":
		return goose.Status(db, dir)
	case "create":
		if name == "" {
			return errors.New("migration name is required for create command")
		}
		if err := goose.Create(db, dir, name, "sql"); err != nil {
			return err
		}
		log.Printf("Created migration: %s", name)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

// open connects to the configured database. When create is set and the
// database does not exist yet, it is created first.
func open(cfg config.DatabaseConfig, create bool) (*sql.DB, error) {
	db, err := sql.Open("postgres", repository.DSN(cfg))
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err == nil {
		return db, nil
	}
	db.Close()

	if !create || !isDatabaseDoesNotExistError(err) {
		return nil, err
	}
	if err := createDatabase(cfg); err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}

	db, err = sql.Open("postgres", repository.DSN(cfg))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func isDatabaseDoesNotExistError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "3D000"
}

func createDatabase(cfg config.DatabaseConfig) error {
	target := cfg.Name
	cfg.Name = "postgres"

	db, err := sql.Open("postgres", repository.DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(target)))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}

	log.Printf("Database '%s' created successfully", target)
	return nil
}
