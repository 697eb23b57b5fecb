// Package main provides the pgbridge CLI for managing database schemas.
//
// The CLI supports:
//   - migrate: Create declared tables in PostgreSQL
//   - drop: Drop declared tables
//   - status: Show which declared tables exist
//   - config: Show effective configuration
//   - version: Print version information
//
// Commands that touch the database (migrate, drop, status) need --db, a
// config file, or PGBRIDGE_DATABASE_URL. The table manifest is a YAML file
// (tables.yaml by default).
package main

func main() {
	Execute()
}
