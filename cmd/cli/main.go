package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	postgresRepo "github.com/s18id/jurnapod-sub001/internal/adapter/repository/postgres"
	redisRepo "github.com/s18id/jurnapod-sub001/internal/adapter/repository/redis"
	"github.com/s18id/jurnapod-sub001/internal/domain"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/config"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/logger"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/metrics"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/postgres"
	"github.com/s18id/jurnapod-sub001/internal/infrastructure/redis"
	"github.com/s18id/jurnapod-sub001/internal/usecase"
)

// errInconsistent marks a reconcile run that found defects. It maps to
// exit code 2 so cron wrappers can tell "ledger broken" from "tool
// broken".
var errInconsistent = errors.New("ledger inconsistent")

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errInconsistent) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jurnapod",
		Short:         "Journal posting operations tool",
		Long:          "Operational commands for the journal posting engine: backfill, reconcile, migrate.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(postCmd())
	rootCmd.AddCommand(backfillCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(migrateCmd())

	return rootCmd
}

// app bundles the wired dependencies a command needs.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	pool       poolCloser
	posting    *usecase.PostingService
	mapperDeps usecase.MapperDeps
	backfill   *usecase.BackfillUseCase
	recon      *usecase.ReconciliationUseCase
}

type poolCloser interface{ Close() }

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// buildApp wires the full dependency graph the way the server does, but
// with a private metrics registry since nothing scrapes a CLI run.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	m := metrics.New(prometheus.NewRegistry())

	txManager := postgresRepo.NewTxManager(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	posRepo := postgresRepo.NewPOSTransactionRepository(pool)
	taxRepo := postgresRepo.NewTaxRateRepository(pool)
	reconRepo := postgresRepo.NewReconciliationRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	var mappings usecase.AccountMappingRepository = postgresRepo.NewAccountMappingRepository(pool)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		mappings = redisRepo.NewMappingCache(mappings, client, cfg.MappingCacheTTL, log)
	}

	deps := usecase.MapperDeps{
		Invoices:         postgresRepo.NewSalesInvoiceRepository(pool),
		Payments:         postgresRepo.NewSalesPaymentRepository(pool),
		DepreciationRuns: postgresRepo.NewDepreciationRunRepository(pool),
		POS:              posRepo,
		Mappings:         mappings,
		Taxes:            taxRepo,
	}

	posting := usecase.NewPostingService(txManager, journalRepo, idGen, m, log)

	posMapper, err := usecase.MapperFor(domain.DocTypePOSSale, deps)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        log,
		pool:       pool,
		posting:    posting,
		mapperDeps: deps,
		backfill:   usecase.NewBackfillUseCase(txManager, posRepo, journalRepo, posting, posMapper, retrier, m, log),
		recon:      usecase.NewReconciliationUseCase(reconRepo, m, log),
	}, nil
}

func postCmd() *cobra.Command {
	var (
		docType   string
		docID     int64
		companyID int64
		outletID  int64
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post one document to the journal",
		Long:  "Posts a single document (sales invoice, payment, depreciation run, or POS sale) to the journal. Safe to repeat: an already-posted document reports its existing batch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.PostingRequest{
				DocType:   domain.DocType(docType),
				DocID:     docID,
				CompanyID: companyID,
			}
			if cmd.Flags().Changed("outlet-id") {
				req.OutletID = &outletID
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			mapper, err := usecase.MapperFor(req.DocType, a.mapperDeps)
			if err != nil {
				return err
			}

			result, err := a.posting.Post(ctx, req, mapper)
			if err != nil {
				return err
			}

			printJSON(struct {
				BatchID       int64  `json:"batch_id"`
				Reference     string `json:"reference"`
				AlreadyPosted bool   `json:"already_posted"`
			}{result.BatchID, result.Reference, result.AlreadyPosted})
			return nil
		},
	}

	cmd.Flags().StringVar(&docType, "doc-type", "", "Document type: SALES_INVOICE, SALES_PAYMENT_IN, DEPRECIATION, POS_SALE")
	cmd.Flags().Int64Var(&docID, "doc-id", 0, "Document id")
	cmd.Flags().Int64Var(&companyID, "company-id", 0, "Company the document belongs to")
	cmd.Flags().Int64Var(&outletID, "outlet-id", 0, "Outlet scope for account mapping resolution")
	_ = cmd.MarkFlagRequired("doc-type")
	_ = cmd.MarkFlagRequired("doc-id")
	_ = cmd.MarkFlagRequired("company-id")

	return cmd
}

func backfillCmd() *cobra.Command {
	var (
		companyID    int64
		allCompanies bool
		outletID     int64
		limit        int
		dryRun       bool
		execute      bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Post historical COMPLETED POS transactions",
		Long:  "Finds COMPLETED POS transactions without a journal batch and posts them. Dry-run by default; pass --execute to write.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input := backfillInput(
				companyID, cmd.Flags().Changed("company-id"),
				outletID, cmd.Flags().Changed("outlet-id"),
				allCompanies, limit, execute,
			)
			if err := input.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.backfill.Run(ctx, input)
			if err != nil {
				return err
			}

			printJSON(backfillReportView(report))

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed", report.Failed, report.Candidates)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&companyID, "company-id", 0, "Scope to one company")
	cmd.Flags().BoolVar(&allCompanies, "all-companies", false, "Run over every company with unposted transactions")
	cmd.Flags().Int64Var(&outletID, "outlet-id", 0, "Scope to one outlet (requires --company-id)")
	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultBackfillLimit, "Maximum candidate rows per run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "Report candidates without posting")
	cmd.Flags().BoolVar(&execute, "execute", false, "Actually post")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "execute")

	return cmd
}

// backfillInput translates flag values into a use case input. Unset
// scope flags become nil so the use case can tell 0 from absent.
func backfillInput(companyID int64, companySet bool, outletID int64, outletSet bool, allCompanies bool, limit int, execute bool) usecase.BackfillInput {
	input := usecase.BackfillInput{
		AllCompanies: allCompanies,
		Limit:        limit,
		Execute:      execute,
	}
	if companySet {
		input.CompanyID = &companyID
	}
	if outletSet {
		input.OutletID = &outletID
	}
	return input
}

type backfillRowView struct {
	CompanyID        int64  `json:"company_id"`
	POSTransactionID int64  `json:"pos_transaction_id"`
	Status           string `json:"status"`
	BatchID          int64  `json:"batch_id,omitempty"`
	Error            string `json:"error,omitempty"`
}

type backfillView struct {
	DryRun     bool              `json:"dry_run"`
	Candidates int               `json:"candidates"`
	Posted     int               `json:"posted"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Rows       []backfillRowView `json:"rows"`
}

func backfillReportView(report *usecase.BackfillReport) backfillView {
	view := backfillView{
		DryRun:     report.DryRun,
		Candidates: report.Candidates,
		Posted:     report.Posted,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
		Rows:       make([]backfillRowView, 0, len(report.Rows)),
	}

	for _, row := range report.Rows {
		rv := backfillRowView{
			CompanyID:        row.CompanyID,
			POSTransactionID: row.POSTransactionID,
			Status:           string(row.Status),
			BatchID:          row.BatchID,
		}
		if row.Err != nil {
			rv.Error = row.Err.Error()
		}
		view.Rows = append(view.Rows, rv)
	}

	return view
}

func reconcileCmd() *cobra.Command {
	var (
		companyID   int64
		outletID    int64
		sampleLimit int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report ledger consistency defects for a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			var outlet *int64
			if cmd.Flags().Changed("outlet-id") {
				outlet = &outletID
			}

			ctx := cmd.Context()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.recon.Report(ctx, companyID, outlet, sampleLimit)
			if err != nil {
				return err
			}

			printJSON(reconReportView(report))

			if !report.Consistent() {
				return fmt.Errorf("%w: %d missing, %d unbalanced, %d orphans",
					errInconsistent, report.MissingBatches, report.UnbalancedBatches, report.OrphanBatches)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&companyID, "company-id", 0, "Company to reconcile")
	cmd.Flags().Int64Var(&outletID, "outlet-id", 0, "Scope to one outlet")
	cmd.Flags().IntVar(&sampleLimit, "sample-limit", usecase.DefaultReconciliationSampleLimit, "Maximum sample IDs per defect kind")
	_ = cmd.MarkFlagRequired("company-id")

	return cmd
}

type reconView struct {
	CompanyID  int64  `json:"company_id"`
	OutletID   *int64 `json:"outlet_id,omitempty"`
	CheckedAt  string `json:"checked_at"`
	Consistent bool   `json:"consistent"`

	MissingBatches   int64   `json:"missing_batches"`
	MissingSampleIDs []int64 `json:"missing_sample_ids"`

	UnbalancedBatches   int64   `json:"unbalanced_batches"`
	UnbalancedSampleIDs []int64 `json:"unbalanced_sample_ids"`

	OrphanBatches   int64   `json:"orphan_batches"`
	OrphanSampleIDs []int64 `json:"orphan_sample_ids"`
}

func reconReportView(report *usecase.ReconciliationReport) reconView {
	return reconView{
		CompanyID:           report.CompanyID,
		OutletID:            report.OutletID,
		CheckedAt:           report.CheckedAt.UTC().Format(time.RFC3339),
		Consistent:          report.Consistent(),
		MissingBatches:      report.MissingBatches,
		MissingSampleIDs:    report.MissingSampleIDs,
		UnbalancedBatches:   report.UnbalancedBatches,
		UnbalancedSampleIDs: report.UnbalancedSampleIDs,
		OrphanBatches:       report.OrphanBatches,
		OrphanSampleIDs:     report.OrphanSampleIDs,
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, log)
		},
	})

	return cmd
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load configuration: %w", err)
	}
	return cfg, logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}), nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
