package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"transit_issues/internal/config"
)

// Creates the entities table and the expression indexes the issue filters
// rely on. gormstore's AutoMigrate covers the table itself; the partial
// indexes on doc fields only exist here.
const schema = `
CREATE TABLE IF NOT EXISTS entities (
	id   BIGSERIAL PRIMARY KEY,
	kind TEXT NOT NULL,
	doc  JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities (kind);
CREATE INDEX IF NOT EXISTS idx_entities_issue_stop ON entities ((doc->>'stop')) WHERE kind = 'Issue';
CREATE INDEX IF NOT EXISTS idx_entities_issue_user ON entities ((doc->>'user')) WHERE kind = 'Issue';
`

func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close connection: %v", err)
		}
	}()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database: ", err)
	}

	fmt.Println("🚀 Running migration...")
	if _, err := db.Exec(schema); err != nil {
		log.Fatal("migration failed: ", err)
	}

	rows, err := db.Query(`
		SELECT indexname
		FROM pg_indexes
		WHERE tablename = 'entities'
		ORDER BY indexname
	`)
	if err != nil {
		log.Fatal("failed to verify indexes: ", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	fmt.Println("📋 Indexes on entities:")
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Printf("failed to scan index name: %v", err)
			continue
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	fmt.Println("✅ Migration complete")
}
