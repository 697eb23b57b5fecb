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
	statusDB     string
	statusSchema string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which declared tables exist",
	Example: `  # Compare the manifest against the database
  pgbridge status --db postgres://localhost/mydb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest := cfg.ResolvedSchema(statusSchema)

		meta, err := schema.Load(manifest)
		if err != nil {
			return cli.SchemaParseError("loading table manifest", err)
		}

		dsn, err := resolveDSN(statusDB)
		if err != nil {
			return err
		}
		return runStatus(dsn, meta)
	},
}

func init() {
	f := statusCmd.Flags()
	f.StringVar(&statusDB, "db", "", "database URL")
	f.StringVar(&statusSchema, "schema", "", "path to the table manifest")
}

func runStatus(dsn string, meta *schema.Metadata) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer db.Close()

	missing := 0
	for _, t := range meta.Tables {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)`,
			t.Name,
		).Scan(&exists)
		if err != nil {
			return cli.GeneralError("checking table "+t.Name, err)
		}
		mark := "present"
		if !exists {
			mark = "missing"
			missing++
		}
		fmt.Printf("%-40s %s\n", t.Name, mark)
	}

	if missing > 0 {
		return cli.GeneralError(fmt.Sprintf("%d table(s) missing, run pgbridge migrate", missing), nil)
	}
	return nil
}
