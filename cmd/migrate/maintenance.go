package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// orderTables are emptied by clear-orders, children first
var orderTables = []string{"payments", "order_details", "orders"}

var confirmClear bool

// clearOrdersCmd wipes order history, e.g. between terms
var clearOrdersCmd = &cobra.Command{
	Use:   "clear-orders",
	Short: "Delete every order, order line and payment",
	Long: `Delete every order, order line and payment and reset their identities.
Students, staff, cafeterias, menu items and permissions are kept.

Examples:
  migrate clear-orders --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmClear {
			return errors.New("refusing to clear order history without --yes")
		}
		return runClearOrders(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(clearOrdersCmd)
	clearOrdersCmd.Flags().BoolVar(&confirmClear, "yes", false, "Confirm deletion")
}

func runClearOrders(ctx context.Context) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE payments, order_details, orders RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate order tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, `ALTER SEQUENCE IF EXISTS payment_id_seq RESTART`); err != nil {
		return fmt.Errorf("failed to reset payment IDs: %w", err)
	}

	fmt.Println("Order history cleared. Post-clear row counts:")
	for _, table := range orderTables {
		var count int
		if err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)); err != nil {
			fmt.Printf("  %s: error: %v\n", table, err)
			continue
		}
		fmt.Printf("  %s: %d\n", table, count)
	}
	return nil
}
