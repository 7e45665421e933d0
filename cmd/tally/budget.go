package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage spending budgets",
		Long: `Create budgets, check their progress against the ledger, and renew
expired ones. Progress is never stored; it is recomputed from the current
ledger on every read.`,
	}

	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(budgetProgressCmd())
	cmd.AddCommand(renewBudgetCmd())
	cmd.AddCommand(deactivateBudgetCmd())

	return cmd
}

func addBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a budget",
		Long: `Create a budget for one expense category, or for all categories when
--category is omitted. The end date is derived from the period length unless
--end is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			amountArg := mustFlagString(cmd, "amount")
			periodArg := mustFlagString(cmd, "period")
			startArg := mustFlagString(cmd, "start")
			endArg := mustFlagString(cmd, "end")
			categoryName := mustFlagString(cmd, "category")
			threshold, _ := cmd.Flags().GetInt("alert-threshold")

			amount, err := decimal.NewFromString(amountArg)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountArg, err)
			}

			start := analytics.DateOf(time.Now())
			if startArg != "" {
				if start, err = parseDate(startArg); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget := model.Budget{
				ID:             uuid.NewString(),
				OwnerID:        ownerID(),
				Amount:         amount,
				Period:         model.BudgetPeriod(periodArg),
				StartDate:      start,
				AlertThreshold: threshold,
				IsActive:       true,
			}

			if endArg != "" {
				end, endErr := parseDate(endArg)
				if endErr != nil {
					return endErr
				}
				budget.EndDate = &end
			} else {
				end := analytics.PeriodEnd(start, budget.Period)
				budget.EndDate = &end
			}

			if categoryName != "" {
				category, catErr := store.GetCategoryByName(ctx, ownerID(), categoryName, model.TransactionTypeExpense)
				if catErr != nil {
					return catErr
				}
				if category == nil {
					return fmt.Errorf("no active expense category named %q", categoryName)
				}
				budget.CategoryID = &category.ID
			}

			if err := store.CreateBudget(ctx, &budget); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created %s budget of %s (%s to %s)",
				budget.Period, amount.StringFixed(2),
				budget.StartDate.Format("2006-01-02"), budget.EndDate.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().String("amount", "", "budget limit, e.g. 500")
	cmd.Flags().String("period", string(model.BudgetPeriodMonthly), "budget period (daily, weekly, monthly, yearly)")
	cmd.Flags().String("category", "", "expense category name; omit to cover all categories")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD, default derived from period)")
	cmd.Flags().Int("alert-threshold", 80, "alert when spending reaches this percentage (1-100)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			all, _ := cmd.Flags().GetBool("all")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, ownerID(), !all)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets found. Use 'tally budget add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Period"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Start"),
				cli.HeaderStyle.Render("End"),
				cli.HeaderStyle.Render("Active"),
				cli.HeaderStyle.Render("ID"))

			for _, b := range budgets {
				end := fmt.Sprintf("+1 %s", b.Period)
				if b.EndDate != nil {
					end = b.EndDate.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%s\n",
					b.Period,
					b.Amount.StringFixed(2),
					b.StartDate.Format("2006-01-02"),
					end,
					b.IsActive,
					b.ID)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "include deactivated budgets")
	return cmd
}

func budgetProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show spending progress for every active budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, ownerID(), true)
			if err != nil {
				return err
			}
			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No active budgets."))
				return nil
			}

			txns, err := loadLedger(ctx, store)
			if err != nil {
				return err
			}

			engine, err := loadEngine(ctx, store)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Budget"),
				cli.HeaderStyle.Render("Limit"),
				cli.HeaderStyle.Render("Spent"),
				cli.HeaderStyle.Render("Remaining"),
				cli.HeaderStyle.Render("Used"),
				cli.HeaderStyle.Render("State"))

			for _, progress := range analytics.EvaluateBudgets(budgets, txns, time.Now()) {
				name := budgetLabel(engine, progress.Budget)

				state := cli.SubtleStyle.Render("ok")
				switch {
				case progress.IsExceeded:
					state = cli.ErrorStyle.Render("exceeded")
				case progress.AlertTriggered:
					state = cli.WarningStyle.Render("alert")
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%%\t%s\n",
					name,
					progress.Budget.Amount.StringFixed(2),
					progress.Spent.StringFixed(2),
					progress.Remaining.StringFixed(2),
					progress.Percentage.StringFixed(2),
					state)
			}
			return nil
		},
	}
}

// budgetLabel names a budget by its category, or "All categories" for a
// category-less budget.
func budgetLabel(engine *analytics.Engine, b model.Budget) string {
	if b.CategoryID == nil {
		return "All categories"
	}
	return engine.CategoryName(*b.CategoryID)
}

func renewBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renew <id>",
		Short: "Renew an expired budget",
		Long: `Create the next budget period for an expired budget: same amount,
category, and threshold, starting the day after the old window ended. The old
budget row is left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			old, err := store.GetBudgetByID(ctx, args[0])
			if err != nil {
				return err
			}

			renewed := analytics.RenewBudget(*old, uuid.NewString())
			if err := store.CreateBudget(ctx, &renewed); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Renewed budget: new period %s to %s (id %s)",
				renewed.StartDate.Format("2006-01-02"),
				renewed.EndDate.Format("2006-01-02"),
				renewed.ID)))
			return nil
		},
	}
}

func deactivateBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateBudget(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deactivated budget %s", args[0])))
			return nil
		},
	}
}
