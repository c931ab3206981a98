package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Atrox/homedir"
	"github.com/dmitrijs2005/monyze/internal/client/migrations"
	"github.com/dmitrijs2005/monyze/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local SQLite file at path and
// brings its schema up to date. A leading "~" is expanded to the home
// directory.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", path, err)
	}

	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
