package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/config"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Schema and setup tool for the cafeteria portal",
	Long: `Apply schema migrations and perform one-off setup tasks against the
portal database.

DATABASE_URL (or --db) selects the database. A .env file in the working
directory is loaded when present.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// databaseConfig merges the --db flag over the environment
func databaseConfig() (config.DatabaseConfig, error) {
	cfg, err := config.LoadDatabase()
	if dbURL != "" {
		cfg.URL = dbURL
		return cfg, nil
	}
	return cfg, err
}

// openDatabase connects through the same driver the server uses
func openDatabase() (database.DB, error) {
	cfg, err := databaseConfig()
	if err != nil {
		return nil, err
	}
	return database.NewConnection(cfg)
}
