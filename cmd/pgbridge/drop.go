package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/pgbridge/pgbridge/internal/cli"
	"github.com/pgbridge/pgbridge/schema"
)

var (
	dropDB     string
	dropSchema string
	dropForce  bool
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop declared tables from the database",
	Long:  `Drop every table declared in the manifest, in reverse declaration order. Prompts for confirmation unless --force is given.`,
	Example: `  # Drop all declared tables
  pgbridge drop --db postgres://localhost/mydb --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest := cfg.ResolvedSchema(resolveString(dropSchema, cfg.Drop.Schema))
		force := dropForce || cfg.Drop.Force

		meta, err := schema.Load(manifest)
		if err != nil {
			return cli.SchemaParseError("loading table manifest", err)
		}

		if !force && !confirmDrop(len(meta.Tables)) {
			fmt.Println("Aborted.")
			return nil
		}

		dsn, err := resolveDSN(dropDB)
		if err != nil {
			return err
		}
		return runDrop(dsn, meta)
	},
}

func init() {
	f := dropCmd.Flags()
	f.StringVar(&dropDB, "db", "", "database URL")
	f.StringVar(&dropSchema, "schema", "", "path to the table manifest")
	f.BoolVar(&dropForce, "force", false, "skip the confirmation prompt")
}

func confirmDrop(n int) bool {
	fmt.Printf("Drop %d table(s)? [y/N] ", n)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func runDrop(dsn string, meta *schema.Metadata) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return cli.DBConnectError("connecting to database", err)
	}
	defer db.Close()

	for _, stmt := range meta.DropSQL() {
		if _, err := db.Exec(stmt); err != nil {
			return cli.GeneralError("applying DDL", err)
		}
	}

	if !quiet {
		fmt.Printf("Dropped %d table(s)\n", len(meta.Tables))
	}
	return nil
}
