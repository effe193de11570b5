package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AgusMolinaCode/cryptotracker/internal/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open abre la base de datos del almacenamiento persistente según el driver configurado
// y ejecuta las migraciones
func Open(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL es obligatorio para el driver %s", config.DriverPostgres)
		}
		db, err = sql.Open("postgres", cfg.DatabaseURL)
	case config.DriverSQLite:
		// Crear el directorio de la base de datos si no existe
		if dir := filepath.Dir(cfg.StorePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("error al crear el directorio %s: %w", dir, err)
			}
		}
		db, err = sql.Open("sqlite3", cfg.StorePath)
		if err == nil {
			// SQLite no admite escrituras concurrentes
			db.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("driver sin base de datos: %s", cfg.StoreDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("error al abrir la base de datos: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error al conectar con la base de datos: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("Base de datos %s inicializada", cfg.StoreDriver)
	return db, nil
}
