package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and list ledger transactions",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(setTransactionStatusCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense transaction. Amounts are always positive;
the --type flag carries the sign.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			txnType := model.TransactionType(mustFlagString(cmd, "type"))
			amountArg := mustFlagString(cmd, "amount")
			dateArg := mustFlagString(cmd, "date")
			categoryName := mustFlagString(cmd, "category")
			status := mustFlagString(cmd, "status")

			amount, err := decimal.NewFromString(amountArg)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountArg, err)
			}

			date, err := parseDate(dateArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn := model.Transaction{
				ID:          uuid.NewString(),
				OwnerID:     ownerID(),
				Type:        txnType,
				Status:      model.TransactionStatus(status),
				Amount:      amount,
				Date:        analytics.DateOf(date),
				Description: mustFlagString(cmd, "description"),
				Notes:       mustFlagString(cmd, "notes"),
			}

			if categoryName != "" {
				category, catErr := store.GetCategoryByName(ctx, ownerID(), categoryName, txnType)
				if catErr != nil {
					return catErr
				}
				if category == nil {
					return fmt.Errorf("no active %s category named %q", txnType, categoryName)
				}
				txn.CategoryID = &category.ID
			}

			txn.Hash = txn.GenerateHash()
			if err := txn.Validate(); err != nil {
				return err
			}

			if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Recorded %s of %s on %s",
				txnType, amount.StringFixed(2), txn.Date.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().String("type", "expense", "transaction type (income, expense)")
	cmd.Flags().String("amount", "", "positive amount, e.g. 42.50")
	cmd.Flags().String("date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().String("category", "", "category name (optional)")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().String("status", string(model.TransactionStatusCompleted), "status (pending, completed, cancelled, failed)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			iv, err := resolvePeriodFlags(cmd)
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all-statuses")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			engine, err := loadEngine(ctx, store)
			if err != nil {
				return err
			}

			txns, err := loadLedger(ctx, store)
			if err != nil {
				return err
			}
			txns = analytics.FilterInterval(txns, iv)

			if !all {
				kept := txns[:0]
				for _, txn := range txns {
					if txn.Status == model.TransactionStatusCompleted {
						kept = append(kept, txn)
					}
				}
				txns = kept
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions in this period."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Status"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("ID"))

			for _, txn := range txns {
				categoryID := ""
				if txn.CategoryID != nil {
					categoryID = *txn.CategoryID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Type,
					txn.Amount.StringFixed(2),
					engine.CategoryName(categoryID),
					txn.Status,
					txn.Description,
					txn.ID)
			}
			return nil
		},
	}

	addPeriodFlags(cmd)
	cmd.Flags().Bool("all-statuses", false, "include pending, cancelled, and failed transactions")
	return cmd
}

func setTransactionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Update a transaction's settlement status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			status := model.TransactionStatus(strings.ToLower(args[1]))
			switch status {
			case model.TransactionStatusPending, model.TransactionStatusCompleted,
				model.TransactionStatusCancelled, model.TransactionStatusFailed:
			default:
				return fmt.Errorf("invalid status %q", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateTransactionStatus(ctx, args[0], status); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Transaction %s is now %s", args[0], status)))
			return nil
		},
	}
}

// mustFlagString reads a string flag that is known to exist.
func mustFlagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
