// Command insights runs the advisor from the terminal: pick an action
// (predict, coach, scan) and a mode, and it prints the payload plus which
// source served it. Without an action it prints the full spending report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/ai"
	"github.com/monukmodi/smart-expense-tracker-client/internal/backend"
	"github.com/monukmodi/smart-expense-tracker-client/internal/cli"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
	"github.com/monukmodi/smart-expense-tracker-client/internal/notify"
)

func main() {
	action := flag.String("action", "", "advisor action: predict, coach, or scan (empty runs everything)")
	days := flag.Int("days", 30, "history window in days for the AI analysis")
	modeName := flag.String("mode", "auto", "free, gemini, openai, or auto")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	mode, ok := parseMode(*modeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %q (want free, gemini, openai, or auto)\n", *modeName)
		os.Exit(2)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() { _ = res.Cleanup() }()
	}

	// Mirror outcomes onto the bus when one is configured; otherwise the
	// toast center stays local to the process.
	toastOpts := []notify.Option{}
	if cfg.AMQPURL != "" {
		bus, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, notifications stay local", "error", err)
		} else {
			defer bus.Close()
			toastOpts = append(toastOpts, notify.WithSink(bus))
		}
	}
	toasts := notify.NewCenter(toastOpts...)
	defer toasts.Close()

	run := func(name string, fn func() error) {
		if err := fn(); err != nil {
			toasts.Push(ctx, notify.KindError, fmt.Sprintf("%s failed: %v", name, err))
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
			os.Exit(1)
		}
		toasts.Push(ctx, notify.KindInfo, name+" completed")
	}

	switch *action {
	case "predict":
		run("predict", func() error { return runPredict(ctx, res.Advisor, *days, mode) })
	case "coach":
		run("coach", func() error { return runCoach(ctx, res.Advisor, *days, mode) })
	case "scan":
		run("scan", func() error { return runScan(ctx, res.Advisor, *days, mode) })
	case "":
		txs, err := res.Source.List(ctx, cfg.FetchSize)
		if err != nil {
			logger.Error("Failed to fetch transactions", "error", err)
			os.Exit(1)
		}
		printOverview(txs)
		fmt.Printf("\nAI analysis (%d days, mode=%s)\n", *days, mode)
		run("predict", func() error { return runPredict(ctx, res.Advisor, *days, mode) })
		run("coach", func() error { return runCoach(ctx, res.Advisor, *days, mode) })
		run("scan", func() error { return runScan(ctx, res.Advisor, *days, mode) })
	default:
		fmt.Fprintf(os.Stderr, "unknown action %q (want predict, coach, or scan)\n", *action)
		os.Exit(2)
	}
}

func parseMode(name string) (ai.Mode, bool) {
	switch name {
	case "free":
		return ai.HeuristicOnly(), true
	case "gemini", "openai":
		return ai.WithProvider(ai.Provider(name)), true
	case "auto", "":
		return ai.Automatic(), true
	default:
		return ai.Mode{}, false
	}
}

func printOverview(txs []core.Transaction) {
	ov := aggregate.Aggregate(txs, time.Now())

	fmt.Printf("Transactions:      %d\n", len(txs))
	fmt.Printf("Total spent:       %.2f\n", ov.Summary.TotalSpent.Dollars())
	fmt.Printf("Total income:      %.2f\n", ov.Summary.TotalIncome.Dollars())
	fmt.Printf("Balance:           %.2f\n", ov.Summary.Balance.Dollars())
	fmt.Printf("This month spent:  %.2f\n", ov.Summary.MonthSpent.Dollars())
	fmt.Printf("This month income: %.2f\n", ov.Summary.MonthIncome.Dollars())

	if len(ov.Categories) > 0 {
		fmt.Println("\nTop categories:")
		for _, c := range ov.Categories {
			fmt.Printf("  %-20s %.2f\n", c.Name, c.Amount.Dollars())
		}
	}

	fmt.Println("\nLast 7 days:")
	for _, d := range ov.Daily {
		fmt.Printf("  %s %s %10.2f\n", d.Day.Format("2006-01-02"), d.Label, d.Amount.Dollars())
	}
}

func runPredict(ctx context.Context, advisor *ai.Orchestrator, days int, mode ai.Mode) error {
	res, err := advisor.Predict(ctx, days, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Forecast [%s]: %.2f", res.Source, float64(res.Payload.PredictedCents)/100)
	if res.Payload.Details != "" {
		fmt.Printf(" (%s)", res.Payload.Details)
	}
	fmt.Println()
	return nil
}

func runCoach(ctx context.Context, advisor *ai.Orchestrator, days int, mode ai.Mode) error {
	res, err := advisor.Coach(ctx, days, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Tips [%s]:\n", res.Source)
	for _, tip := range res.Payload.Tips {
		fmt.Printf("  - %s\n", tip)
	}
	return nil
}

func runScan(ctx context.Context, advisor *ai.Orchestrator, days int, mode ai.Mode) error {
	res, err := advisor.ScanRecurring(ctx, days, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Recurring bills [%s]:\n", res.Source)
	if len(res.Payload.Items) == 0 {
		fmt.Println("  (none detected)")
		return nil
	}
	for _, item := range res.Payload.Items {
		fmt.Printf("  %-30s %.2f every %d days (%d seen)\n",
			item.Description, float64(item.AmountCents)/100, item.IntervalDays, item.Occurrences)
	}
	return nil
}
