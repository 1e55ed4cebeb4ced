// Command generate_schema migrates an empty index and dumps the resulting
// DDL to internal/database/sqlc/schema.sql, where sqlc and the tests pick it up.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"idup/internal/database"
	"idup/internal/database/migrations"
)

const schemaHeader = `-- Generated by internal/database/tools/generate_schema.go from
-- internal/database/migrations/files. Edit the migrations, not this file.

`

// schemaObjects lists user objects in dependency order. The migration
// bookkeeping table is left out since the test schema never migrates.
const schemaObjects = `
	SELECT sql FROM sqlite_master
	WHERE sql IS NOT NULL
	  AND type IN ('table', 'index', 'trigger')
	  AND name NOT LIKE 'sqlite_%'
	  AND tbl_name != 'schema_migrations'
	ORDER BY CASE type WHEN 'table' THEN 0 WHEN 'index' THEN 1 ELSE 2 END, name`

func main() {
	if err := run(filepath.Join("internal", "database", "sqlc", "schema.sql")); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	ddl, err := dumpSchema(db)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(schemaHeader+ddl), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func dumpSchema(db *sql.DB) (string, error) {
	rows, err := db.Query(schemaObjects)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning statement: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating statements: %w", err)
	}
	return b.String(), nil
}
