package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SscSPs/teller_payroll_app/internal/core/domain"
	"github.com/SscSPs/teller_payroll_app/internal/core/services"
	"github.com/SscSPs/teller_payroll_app/internal/dto"
	"github.com/SscSPs/teller_payroll_app/internal/platform/config"
	"github.com/SscSPs/teller_payroll_app/internal/platform/logging"
	"github.com/SscSPs/teller_payroll_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/teller_payroll_app/internal/utils/accounting"
	"github.com/SscSPs/teller_payroll_app/pkg/database"
)

type cliOptions struct {
	input     string
	shortKind string
	period    string
	grouping  string
	policy    string
	anchor    string
	actor     string
	dryRun    bool
}

func parseFlags(args []string) (cliOptions, *flag.FlagSet, error) {
	var o cliOptions
	fs := flag.NewFlagSet("consolidate_payrolls", flag.ContinueOnError)
	fs.StringVar(&o.input, "input", "", "path to the exported JSON array of legacy payroll documents (required)")
	fs.StringVar(&o.shortKind, "short-kind", "", "how legacy short values are stored: OUTSTANDING or INSTALLMENT (required)")
	fs.StringVar(&o.period, "period", "", "pay period for imported rows: WEEKLY or MONTHLY (default from PAYROLL_SHORT_POLICY)")
	fs.StringVar(&o.grouping, "group", string(dto.GroupByDay), "duplicate bucket: DAY or WEEK")
	fs.StringVar(&o.policy, "policy", "default", "merge policy: default or legacy")
	fs.StringVar(&o.anchor, "anchor", "", "override the merged date: EARLIEST_RECORD or PERIOD_START")
	fs.StringVar(&o.actor, "actor", "system:consolidate_payrolls", "user ID recorded as creator")
	fs.BoolVar(&o.dryRun, "dry-run", false, "merge and log without writing")
	err := fs.Parse(args)
	return o, fs, err
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code: 0 on success, 1 on failure or failed groups, 2 on bad arguments.
func run(args []string) int {
	opts, fs, err := parseFlags(args)
	if err != nil {
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}
	logger := logging.NewLogger(os.Stdout, cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)

	importOpts, err := buildImportOptions(opts, cfg.PayrollPeriod)
	if err != nil {
		logger.Error("Invalid arguments", slog.String("error", err.Error()))
		fs.Usage()
		return 2
	}

	docs, err := readDocuments(opts.input)
	if err != nil {
		logger.Error("Failed to read legacy documents", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, logger = logging.WithJobRun(ctx, logger, "consolidate_payrolls")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		return 1
	}
	dbPool, err := database.NewPgxPool(ctx, database.PoolOptions{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: cfg.DBConnTimeout,
		Ping:           cfg.EnableDBCheck,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return 1
	}
	defer database.ClosePgxPool(dbPool, logger)

	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), nil, nil)
	result, err := svc.Consolidation.ImportLegacy(ctx, docs, importOpts)
	if err != nil {
		logger.Error("Import failed", slog.String("error", err.Error()))
		return 1
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	if len(result.Failed) > 0 {
		return 1
	}
	return 0
}

func buildImportOptions(o cliOptions, defaultPeriod domain.PayPeriod) (dto.ImportLegacyOptions, error) {
	if o.input == "" {
		return dto.ImportLegacyOptions{}, fmt.Errorf("-input is required")
	}
	if o.shortKind == "" {
		return dto.ImportLegacyOptions{}, fmt.Errorf("-short-kind is required; legacy short values have no safe default")
	}
	kind, err := domain.ParseShortKind(o.shortKind)
	if err != nil {
		return dto.ImportLegacyOptions{}, err
	}
	period := defaultPeriod
	if o.period != "" {
		if period, err = domain.ParsePayPeriod(o.period); err != nil {
			return dto.ImportLegacyOptions{}, err
		}
	}
	policy, err := accounting.ConsolidationPolicyByName(o.policy)
	if err != nil {
		return dto.ImportLegacyOptions{}, err
	}
	switch accounting.DateAnchor(strings.ToUpper(o.anchor)) {
	case "":
	case accounting.AnchorEarliestRecord:
		policy.Anchor = accounting.AnchorEarliestRecord
	case accounting.AnchorPeriodStart:
		policy.Anchor = accounting.AnchorPeriodStart
	default:
		return dto.ImportLegacyOptions{}, fmt.Errorf("unknown -anchor %q", o.anchor)
	}

	importOpts := dto.ImportLegacyOptions{
		ShortKind: kind,
		Period:    period,
		Grouping:  dto.LegacyGrouping(strings.ToUpper(o.grouping)),
		Policy:    policy,
		ActorID:   o.actor,
		DryRun:    o.dryRun,
	}
	return importOpts, dto.Validate(importOpts)
}

func readDocuments(path string) ([]dto.LegacyPayrollDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []dto.LegacyPayrollDocument
	if err := json.NewDecoder(f).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return docs, nil
}
