package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/cli"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "View ledger reports",
		Long: `Reports are computed fresh from the ledger on every run; nothing is
cached or persisted, so they can never drift from the recorded transactions.`,
	}

	cmd.AddCommand(monthReportCmd())
	cmd.AddCommand(yearReportCmd())
	cmd.AddCommand(categoryReportCmd())
	cmd.AddCommand(statsReportCmd())
	cmd.AddCommand(compareReportCmd())

	return cmd
}

func monthReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Monthly report: summary, category breakdown, daily trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			year, _ := cmd.Flags().GetInt("year")
			monthNum, _ := cmd.Flags().GetInt("month")
			if year == 0 {
				year = now.Year()
			}
			if monthNum == 0 {
				monthNum = int(now.Month())
			}
			showTrend, _ := cmd.Flags().GetBool("trend")

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

			report, err := engine.MonthlyReport(txns, year, time.Month(monthNum))
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Report for %s %d", report.Month, report.Year)))
			renderSummary(report.Summary)
			renderCategories(report.Categories)

			if showTrend {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Daily trend"))
				renderTrend(report.DailyTrend)
			}
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "report year (default: current)")
	cmd.Flags().Int("month", 0, "report month 1-12 (default: current)")
	cmd.Flags().Bool("trend", false, "include the zero-filled daily trend")
	return cmd
}

func yearReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Yearly report: monthly buckets, quarters, top categories, extremes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = time.Now().Year()
			}
			topN, _ := cmd.Flags().GetInt("top")

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

			report, err := engine.YearlyReport(txns, year, topN)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Report for %d", report.Year)))
			renderSummary(report.Summary)

			fmt.Println()
			fmt.Println(cli.HeaderStyle.Render("Months"))
			renderTrend(report.Months)

			fmt.Println()
			fmt.Println(cli.HeaderStyle.Render("Quarters"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, q := range report.Quarters {
				fmt.Fprintf(w, "Q%d\t%s\t%s\t%s\n",
					q.Quarter,
					q.Income.StringFixed(2),
					q.Expenses.StringFixed(2),
					q.Net.StringFixed(2))
			}
			_ = w.Flush()

			if len(report.TopCategories) > 0 {
				fmt.Println()
				fmt.Println(cli.HeaderStyle.Render("Top categories"))
				renderCategories(report.TopCategories)
			}

			fmt.Println()
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
				"Highest income: %s · Highest expenses: %s · Best net: %s",
				report.Extremes.HighestIncome,
				report.Extremes.HighestExpense,
				report.Extremes.BestNet)))
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "report year (default: current)")
	cmd.Flags().Int("top", analytics.DefaultTopCategories, "number of top categories to show")
	return cmd
}

func categoryReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Per-category totals for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			iv, err := resolvePeriodFlags(cmd)
			if err != nil {
				return err
			}

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

			report, err := engine.CategoryReport(txns, iv)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Category report " + intervalLabel(report.Interval)))
			renderCategories(report.Categories)
			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}

func statsReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard statistics for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			token, custom, err := periodSelection(cmd)
			if err != nil {
				return err
			}

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

			stats, err := engine.Statistics(txns, token, custom, time.Now())
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Statistics " + intervalLabel(stats.Interval)))
			renderSummary(stats.Summary)
			fmt.Printf("Transactions: %d (average %s)\n",
				stats.TotalCount, stats.AverageTransaction.StringFixed(2))
			renderCategories(stats.Categories)
			return nil
		},
	}

	addPeriodFlags(cmd)
	return cmd
}

func compareReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <previous-year> <current-year>",
		Short: "Year-over-year comparison",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			previousYear, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			currentYear, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[1])
			}

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

			report, err := engine.YearOverYear(txns, previousYear, currentYear)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%d vs %d", report.PreviousYear, report.CurrentYear)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render(strconv.Itoa(report.PreviousYear)),
				cli.HeaderStyle.Render(strconv.Itoa(report.CurrentYear)),
				cli.HeaderStyle.Render("Growth"))
			fmt.Fprintf(w, "Income\t%s\t%s\t%s%%\n",
				report.Previous.Income.StringFixed(2),
				report.Current.Income.StringFixed(2),
				report.IncomeGrowth.StringFixed(2))
			fmt.Fprintf(w, "Expenses\t%s\t%s\t%s%%\n",
				report.Previous.Expenses.StringFixed(2),
				report.Current.Expenses.StringFixed(2),
				report.ExpenseGrowth.StringFixed(2))
			fmt.Fprintf(w, "Balance\t%s\t%s\t\n",
				report.Previous.Balance.StringFixed(2),
				report.Current.Balance.StringFixed(2))
			return nil
		},
	}
}

func renderSummary(s analytics.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	balanceStyle := cli.SuccessStyle
	if s.Balance.IsNegative() {
		balanceStyle = cli.ErrorStyle
	}

	fmt.Fprintf(w, "Income\t%s\n", s.Income.StringFixed(2))
	fmt.Fprintf(w, "Expenses\t%s\n", s.Expenses.StringFixed(2))
	fmt.Fprintf(w, "Balance\t%s\n", balanceStyle.Render(s.Balance.StringFixed(2)))
	fmt.Fprintf(w, "Savings rate\t%s%%\n", s.SavingsRate.StringFixed(2))
}

func renderCategories(rows []analytics.CategoryTotal) {
	if len(rows) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No categorized activity."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Total"),
		cli.HeaderStyle.Render("Count"),
		cli.HeaderStyle.Render("Average"),
		cli.HeaderStyle.Render("Share"))

	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s%%\n",
			row.CategoryName,
			row.Type,
			row.Total.StringFixed(2),
			row.Count,
			row.Average.StringFixed(2),
			row.Percentage.StringFixed(2))
	}
}

func renderTrend(points []analytics.TrendPoint) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Label,
			p.Income.StringFixed(2),
			p.Expenses.StringFixed(2),
			p.Net.StringFixed(2))
	}
}

func intervalLabel(iv analytics.Interval) string {
	if !iv.Bounded() {
		return "(all time)"
	}
	last := iv.End.AddDate(0, 0, -1)
	return fmt.Sprintf("(%s to %s)", iv.Start.Format("2006-01-02"), last.Format("2006-01-02"))
}
