// Package migrations embeds the Postgres schema and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

func setup() error {
	goose.SetBaseFS(files)
	return goose.SetDialect("postgres")
}

func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func Down(db *sql.DB) error {
	if err := setup(); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Down(db, dir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func Status(db *sql.DB) error {
	if err := setup(); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Status(db, dir)
}
