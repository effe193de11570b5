package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations crea la tabla clave-valor donde se guardan la watchlist y el portafolio.
// El SQL es compatible con SQLite y PostgreSQL.
func RunMigrations(db *sql.DB) error {
	log.Println("Ejecutando migraciones de la base de datos...")

	createKVTableSQL := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(createKVTableSQL); err != nil {
		return fmt.Errorf("error al crear la tabla kv_store: %w", err)
	}

	return nil
}
