package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/spf13/cobra"
)

// upCmd applies pending migrations
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd.Context())
	},
}

// statusCmd shows migration status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(upCmd, statusCmd)
}

func newMigrator(ctx context.Context) (*database.Migrator, func(), error) {
	cfg, err := databaseConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := database.NewMigrationPool(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	migrator, err := database.NewMigrator(pool, newLogger())
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return migrator, pool.Close, nil
}

func runUp(ctx context.Context) error {
	migrator, closePool, err := newMigrator(ctx)
	if err != nil {
		return err
	}
	defer closePool()

	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Println("Database is up to date")
		return nil
	}
	for _, m := range applied {
		fmt.Printf("Applied %s_%s\n", m.Version, m.Name)
	}
	return nil
}

func runStatus(ctx context.Context) error {
	migrator, closePool, err := newMigrator(ctx)
	if err != nil {
		return err
	}
	defer closePool()

	statuses, err := migrator.Status(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		state, at := "pending", "-"
		if s.Applied() {
			state = "applied"
			at = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Version, s.Name, state, at)
	}
	return w.Flush()
}
