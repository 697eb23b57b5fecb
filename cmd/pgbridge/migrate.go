package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pgbridge/pgbridge/internal/cli"
	"github.com/pgbridge/pgbridge/schema"
)

var (
	migrateDB     string
	migrateSchema string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create declared tables in the database",
	Long:  `Create every table declared in the manifest. Creation is IF NOT EXISTS, so migrate is safe to run on every deploy.`,
	Example: `  # Apply the manifest to a database
  pgbridge migrate --db postgres://localhost/mydb

  # Preview the DDL without applying
  pgbridge migrate --db postgres://localhost/mydb --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest := cfg.ResolvedSchema(resolveString(migrateSchema, cfg.Migrate.Schema))
		dryRun := migrateDryRun || cfg.Migrate.DryRun

		meta, err := schema.Load(manifest)
		if err != nil {
			return cli.SchemaParseError("loading table manifest", err)
		}

		if dryRun {
			for _, stmt := range meta.CreateSQL() {
				fmt.Println(stmt + ";")
			}
			return nil
		}

		dsn, err := resolveDSN(migrateDB)
		if err != nil {
			return err
		}
		return runMigrate(dsn, meta)
	},
}

func init() {
	f := migrateCmd.Flags()
	f.StringVar(&migrateDB, "db", "", "database URL")
	f.StringVar(&migrateSchema, "schema", "", "path to the table manifest")
	f.BoolVar(&migrateDryRun, "dry-run", false, "output DDL without applying")
}

func runMigrate(dsn string, meta *schema.Metadata) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer db.Close()

	for _, stmt := range meta.CreateSQL() {
		if _, err := db.Exec(stmt); err != nil {
			return cli.GeneralError("applying DDL", err)
		}
	}

	if !quiet {
		fmt.Printf("Created %d table(s)\n", len(meta.Tables))
	}
	return nil
}
