// Package collector orchestrates batch collection runs: resolve each
// company to a corp_code, fetch its statements per year and quarter,
// normalize and derive ratios, then merge the rows into the per-company
// output files. Failures are contained at the smallest useful scope: a
// company that cannot be resolved is skipped whole, a failed fetch
// downgrades its (year, quarter) unit to a row of all-nil ratios, and
// the batch always runs to the end.
package collector

import (
	"context"
	"fmt"
	"log/slog"

	"dartcli/internal/archive"
	"dartcli/internal/normalize"
	"dartcli/internal/ratios"
	"dartcli/pkg/contracts/domain"
)

// StatementFetcher retrieves raw statement lines for one company period.
type StatementFetcher interface {
	FetchStatements(ctx context.Context, corpCode, year string, period domain.ReportPeriod, division domain.StatementDivision) ([]domain.RawLineItem, error)
}

// CorpResolver maps a company reference to its DART corp_code.
type CorpResolver interface {
	Resolve(ctx context.Context, company domain.CompanyRef) (string, error)
}

// RatioStore persists computed rows per (stock_code, year).
type RatioStore interface {
	CollectedQuarters(stockCode, year string) (map[domain.ReportPeriod]bool, error)
	Write(stockCode, year string, rows []domain.RatioRow) error
}

// Options control one batch run.
type Options struct {
	Years   []string
	Periods []domain.ReportPeriod
	// Division is the preferred consolidation basis. Consolidated
	// fetches that yield no usable ratios fall back to separate
	// statements; an explicit separate division never falls back.
	Division domain.StatementDivision
	// Force re-fetches quarters that already exist in the output files.
	Force bool
}

// Summary is the outcome of one batch run. UnitsFailed counts fetch
// errors; those units still produce all-nil rows and count as
// collected.
type Summary struct {
	Companies      int
	CompaniesError int
	RowsCollected  int
	UnitsSkipped   int
	UnitsFailed    int
}

// Collector runs collection batches.
type Collector struct {
	fetcher  StatementFetcher
	resolver CorpResolver
	store    RatioStore
	archiver archive.Archiver
	logger   *slog.Logger
}

// New creates a collector. archiver may be nil when raw archival is off.
func New(fetcher StatementFetcher, resolver CorpResolver, store RatioStore, archiver archive.Archiver, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		fetcher:  fetcher,
		resolver: resolver,
		store:    store,
		archiver: archiver,
		logger:   logger,
	}
}

// Run collects every (company, year, quarter) unit and returns a
// summary. Only a cancelled context aborts the batch early.
func (c *Collector) Run(ctx context.Context, companies []domain.CompanyRef, opts Options) (*Summary, error) {
	if len(opts.Years) == 0 {
		return nil, fmt.Errorf("no years to collect")
	}
	periods := opts.Periods
	if len(periods) == 0 {
		periods = domain.ReportPeriods
	}
	division := opts.Division
	if division == "" {
		division = domain.DivisionConsolidated
	}

	summary := &Summary{Companies: len(companies)}

	for i, company := range companies {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		logger := c.logger.With(
			slog.String("stock_code", company.StockCode),
			slog.String("corp_name", company.CorpName))
		logger.Info("collecting company",
			slog.Int("position", i+1),
			slog.Int("total", len(companies)))

		corpCode, err := c.resolver.Resolve(ctx, company)
		if err != nil {
			logger.Warn("skipping company", slog.String("error", err.Error()))
			summary.CompaniesError++
			continue
		}

		for _, year := range opts.Years {
			if err := c.collectYear(ctx, logger, company, corpCode, year, periods, division, opts.Force, summary); err != nil {
				return summary, err
			}
		}
	}

	c.logger.Info("batch finished",
		slog.Int("companies", summary.Companies),
		slog.Int("companies_error", summary.CompaniesError),
		slog.Int("rows_collected", summary.RowsCollected),
		slog.Int("units_skipped", summary.UnitsSkipped),
		slog.Int("units_failed", summary.UnitsFailed))
	return summary, nil
}

// collectYear gathers all requested quarters of one (company, year) and
// writes them in a single merge. Only context cancellation propagates.
func (c *Collector) collectYear(ctx context.Context, logger *slog.Logger, company domain.CompanyRef, corpCode, year string, periods []domain.ReportPeriod, division domain.StatementDivision, force bool, summary *Summary) error {
	var collected map[domain.ReportPeriod]bool
	if !force {
		var err error
		collected, err = c.store.CollectedQuarters(company.StockCode, year)
		if err != nil {
			logger.Warn("cannot read existing output, re-collecting year",
				slog.String("year", year),
				slog.String("error", err.Error()))
		}
	}

	var newRows []domain.RatioRow
	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return err
		}
		if collected[period] {
			logger.Debug("quarter already collected",
				slog.String("year", year),
				slog.String("quarter", string(period)))
			summary.UnitsSkipped++
			continue
		}

		row, err := c.collectUnit(ctx, logger, company, corpCode, year, period, division, summary)
		if err != nil {
			return err
		}
		newRows = append(newRows, *row)
		summary.RowsCollected++
	}

	if len(newRows) == 0 {
		return nil
	}
	if err := c.store.Write(company.StockCode, year, newRows); err != nil {
		logger.Error("write output failed",
			slog.String("year", year),
			slog.String("error", err.Error()))
		summary.UnitsFailed += len(newRows)
		summary.RowsCollected -= len(newRows)
	}
	return nil
}

// collectUnit fetches, normalizes and derives one (company, year,
// quarter). A consolidated fetch whose ratios are all nil is retried
// with separate statements. Units never fail the batch: fetch errors
// and "no data" both downgrade to an accepted row with all-nil ratios,
// so the quarter is marked collected and re-runs skip it. Only context
// cancellation propagates.
func (c *Collector) collectUnit(ctx context.Context, logger *slog.Logger, company domain.CompanyRef, corpCode, year string, period domain.ReportPeriod, division domain.StatementDivision, summary *Summary) (*domain.RatioRow, error) {
	items, row, err := c.fetchAndCompute(ctx, logger, company, corpCode, year, period, division, summary)
	if err != nil {
		return nil, err
	}

	if division == domain.DivisionConsolidated && row.AllNil(ratios.Names()) {
		logger.Debug("consolidated statements empty, trying separate",
			slog.String("year", year),
			slog.String("quarter", string(period)))
		items, row, err = c.fetchAndCompute(ctx, logger, company, corpCode, year, period, domain.DivisionSeparate, summary)
		if err != nil {
			return nil, err
		}
	}

	if len(items) > 0 {
		c.archiveRaw(ctx, company, year, period, items)
	}
	return row, nil
}

// fetchAndCompute turns one statement fetch into a ratio row. A fetch
// error is logged and yields the same all-nil row an empty response
// does.
func (c *Collector) fetchAndCompute(ctx context.Context, logger *slog.Logger, company domain.CompanyRef, corpCode, year string, period domain.ReportPeriod, division domain.StatementDivision, summary *Summary) ([]domain.RawLineItem, *domain.RatioRow, error) {
	items, err := c.fetcher.FetchStatements(ctx, corpCode, year, period, division)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		logger.Warn("statement fetch failed",
			slog.String("year", year),
			slog.String("quarter", string(period)),
			slog.String("fs_div", string(division)),
			slog.String("error", err.Error()))
		summary.UnitsFailed++
		items = nil
	}

	canonical := normalize.Normalize(items)
	row := &domain.RatioRow{
		StockCode: company.StockCode,
		CorpName:  company.CorpName,
		Year:      year,
		Quarter:   period,
		Label:     company.Label,
		Ratios:    ratios.ComputeAll(canonical),
	}
	return items, row, nil
}

// archiveRaw mirrors the raw payload. Archive failures never fail the
// unit; a hard storage error disables archival for the rest of the run.
func (c *Collector) archiveRaw(ctx context.Context, company domain.CompanyRef, year string, period domain.ReportPeriod, items []domain.RawLineItem) {
	if c.archiver == nil {
		return
	}
	if err := c.archiver.Archive(ctx, company, year, period, items); err != nil {
		c.logger.Error("raw archive failed, disabling archival for this run",
			slog.String("stock_code", company.StockCode),
			slog.String("year", year),
			slog.String("quarter", string(period)),
			slog.String("error", err.Error()))
		c.archiver = nil
	}
}
