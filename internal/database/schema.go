package database

import _ "embed"

// Schema is the full index schema, generated from the migrations. Tests
// apply it to in-memory databases directly.
//
//go:embed sqlc/schema.sql
var Schema string
