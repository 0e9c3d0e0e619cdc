package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pharmeo/pharmeo/internal/ledger"
	"github.com/pharmeo/pharmeo/internal/ledger/tax"
)

// ReportType enumerates the reports the façade can dispatch.
type ReportType string

const (
	TypeTrialBalance    ReportType = "trial_balance"
	TypeIncomeStatement ReportType = "income_statement"
	TypeBalanceSheet    ReportType = "balance_sheet"
	TypeGeneralLedger   ReportType = "general_ledger"
	TypeG50             ReportType = "g50"
)

// Request carries the parameters for one report generation. Which fields are
// required depends on Type.
type Request struct {
	TenantID    uuid.UUID  `validate:"required"`
	Type        ReportType `validate:"required"`
	StartDate   *time.Time
	EndDate     *time.Time
	AsOfDate    *time.Time
	AccountCode string
	Year        int
	Month       int
}

// Report is the façade's normalized response: Type plus exactly one populated
// payload.
type Report struct {
	Type            ReportType       `json:"report_type"`
	TrialBalance    *TrialBalance    `json:"trial_balance,omitempty"`
	IncomeStatement *IncomeStatement `json:"income_statement,omitempty"`
	BalanceSheet    *BalanceSheet    `json:"balance_sheet,omitempty"`
	GeneralLedger   *GeneralLedger   `json:"general_ledger,omitempty"`
	TaxSummary      *TaxSummary      `json:"tax_summary,omitempty"`
}

// AccountReader is the chart of accounts port consumed by reporting.
type AccountReader interface {
	GetDetailAccounts(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error)
	GetAccount(ctx context.Context, tenantID uuid.UUID, code string) (ledger.Account, error)
}

// Service dispatches report requests to the matching builder. It holds no
// mutable state; any number of reports may be generated concurrently.
type Service struct {
	accounts AccountReader
	agg      *Aggregator
	vat      tax.Reader
	cache    *Cache
	validate *validator.Validate
	group    singleflight.Group
}

// NewService constructs the report façade. cache may be nil, in which case
// every request computes fresh.
func NewService(accounts AccountReader, agg *Aggregator, vat tax.Reader, cache *Cache) *Service {
	return &Service{
		accounts: accounts,
		agg:      agg,
		vat:      vat,
		cache:    cache,
		validate: validator.New(),
	}
}

// GenerateReport validates the request, dispatches to the builder for its
// type, and returns the normalized report. All failures come back as typed
// errors; nothing is retried here — retry policy belongs to the store
// adapter.
func (s *Service) GenerateReport(ctx context.Context, req Request) (*Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingParameter, err)
	}
	switch req.Type {
	case TypeTrialBalance, TypeIncomeStatement, TypeBalanceSheet, TypeGeneralLedger, TypeG50:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidReportType, req.Type)
	}
	if err := req.checkParams(); err != nil {
		return nil, err
	}

	key := req.cacheKey()
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return s.build(ctx, req, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Report), nil
	}
}

func (req Request) checkParams() error {
	switch req.Type {
	case TypeTrialBalance, TypeIncomeStatement:
		if req.StartDate == nil {
			return missingParam("start_date")
		}
		if req.EndDate == nil {
			return missingParam("end_date")
		}
	case TypeBalanceSheet:
		if req.AsOfDate == nil {
			return missingParam("as_of_date")
		}
	case TypeGeneralLedger:
		if req.AccountCode == "" {
			return missingParam("account_code")
		}
		if req.StartDate == nil {
			return missingParam("start_date")
		}
		if req.EndDate == nil {
			return missingParam("end_date")
		}
	case TypeG50:
		if req.Year == 0 {
			return missingParam("year")
		}
		if req.Month < 1 || req.Month > 12 {
			return missingParam("month")
		}
	}
	return nil
}

func (req Request) cacheKey() string {
	const day = "2006-01-02"
	fmtDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(day)
	}
	return fmt.Sprintf("reports:%s:%s:%s:%s:%s:%s:%d-%02d",
		req.TenantID, req.Type,
		fmtDate(req.StartDate), fmtDate(req.EndDate), fmtDate(req.AsOfDate),
		req.AccountCode, req.Year, req.Month)
}

func (s *Service) build(ctx context.Context, req Request, key string) (*Report, error) {
	report := &Report{Type: req.Type}
	if s.cache != nil {
		// Cache errors degrade to direct computation; a stale-free miss is
		// always safe because reports are pure functions of posted data.
		if err := s.cache.FetchJSON(ctx, key, report, func(ctx context.Context) (interface{}, error) {
			fresh := &Report{Type: req.Type}
			if err := s.buildInto(ctx, req, fresh); err != nil {
				return nil, err
			}
			return fresh, nil
		}); err == nil {
			return report, nil
		} else if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, err
		}
	}
	if err := s.buildInto(ctx, req, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) buildInto(ctx context.Context, req Request, out *Report) error {
	switch req.Type {
	case TypeTrialBalance:
		tb, err := s.trialBalance(ctx, req)
		if err != nil {
			return err
		}
		out.TrialBalance = tb
	case TypeIncomeStatement:
		period, err := s.agg.PeriodMovements(ctx, req.TenantID, "", *req.StartDate, *req.EndDate)
		if err != nil {
			return err
		}
		st := BuildIncomeStatement(period)
		out.IncomeStatement = &st
	case TypeBalanceSheet:
		asOf, err := s.agg.BalancesAsOf(ctx, req.TenantID, "", *req.AsOfDate)
		if err != nil {
			return err
		}
		bs := BuildBalanceSheet(asOf)
		out.BalanceSheet = &bs
	case TypeGeneralLedger:
		gl, err := s.generalLedger(ctx, req)
		if err != nil {
			return err
		}
		out.GeneralLedger = gl
	case TypeG50:
		entries, err := s.vat.ListForPeriod(ctx, req.TenantID, req.Year, req.Month)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		ts := BuildTaxSummary(req.Year, req.Month, entries)
		out.TaxSummary = &ts
	}
	return nil
}

func (s *Service) trialBalance(ctx context.Context, req Request) (*TrialBalance, error) {
	accounts, err := s.accounts.GetDetailAccounts(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	opening, err := s.agg.OpeningBalances(ctx, req.TenantID, "", *req.StartDate)
	if err != nil {
		return nil, err
	}
	period, err := s.agg.PeriodMovements(ctx, req.TenantID, "", *req.StartDate, *req.EndDate)
	if err != nil {
		return nil, err
	}
	tb := BuildTrialBalance(accounts, opening, period)
	return &tb, nil
}

func (s *Service) generalLedger(ctx context.Context, req Request) (*GeneralLedger, error) {
	account, err := s.accounts.GetAccount(ctx, req.TenantID, req.AccountCode)
	if err != nil {
		return nil, err
	}
	opening, err := s.agg.OpeningForAccount(ctx, req.TenantID, account.Code, *req.StartDate)
	if err != nil {
		return nil, err
	}
	lines, err := s.agg.AccountLines(ctx, req.TenantID, account.Code, *req.StartDate, *req.EndDate)
	if err != nil {
		return nil, err
	}
	gl := BuildGeneralLedger(account, opening, lines)
	return &gl, nil
}
