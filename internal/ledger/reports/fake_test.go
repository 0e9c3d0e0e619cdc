package reports

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
	"github.com/pharmeo/pharmeo/internal/ledger/tax"
)

// fakeLines is an in-memory journal store applying the same filter semantics
// as the SQL adapter.
type fakeLines struct {
	tenantID uuid.UUID
	lines    []ledger.PostedLine
	err      error
	calls    int
}

func (f *fakeLines) QueryPostedLines(_ context.Context, tenantID uuid.UUID, q LineQuery) ([]ledger.PostedLine, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if tenantID != f.tenantID {
		return nil, nil
	}
	var out []ledger.PostedLine
	for _, line := range f.lines {
		if q.AccountCode != "" && line.AccountCode != q.AccountCode {
			continue
		}
		if q.AccountPrefix != "" && !strings.HasPrefix(line.AccountCode, q.AccountPrefix) {
			continue
		}
		if q.From != nil && line.EntryDate.Before(*q.From) {
			continue
		}
		if q.To != nil && line.EntryDate.After(*q.To) {
			continue
		}
		if q.Before != nil && !line.EntryDate.Before(*q.Before) {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

type fakeAccounts struct {
	tenantID uuid.UUID
	accounts []ledger.Account
	err      error
}

func (f *fakeAccounts) GetDetailAccounts(_ context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	if tenantID != f.tenantID {
		return nil, nil
	}
	return f.accounts, nil
}

func (f *fakeAccounts) GetAccount(_ context.Context, tenantID uuid.UUID, code string) (ledger.Account, error) {
	if f.err != nil {
		return ledger.Account{}, f.err
	}
	for _, acc := range f.accounts {
		if tenantID == f.tenantID && acc.Code == code {
			return acc, nil
		}
	}
	return ledger.Account{}, ledger.ErrAccountNotFound
}

type fakeVAT struct {
	entries []tax.Entry
	err     error
}

func (f *fakeVAT) ListForPeriod(_ context.Context, tenantID uuid.UUID, year, month int) ([]tax.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []tax.Entry
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.Year == year && e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func postedLine(code, debit, credit, date, number string) ledger.PostedLine {
	return ledger.PostedLine{
		AccountCode: code,
		Debit:       dec(debit),
		Credit:      dec(credit),
		EntryDate:   day(date),
		EntryNumber: number,
	}
}

func detailAccount(code, name string, normal ledger.NormalBalance) ledger.Account {
	return ledger.Account{
		Code:          code,
		Name:          name,
		NormalBalance: normal,
		IsDetail:      true,
		IsActive:      true,
	}
}
