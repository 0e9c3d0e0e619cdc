// Package http exposes the ledger and reporting endpoints.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmeo/pharmeo/internal/ledger"
	"github.com/pharmeo/pharmeo/internal/ledger/journals"
	"github.com/pharmeo/pharmeo/internal/ledger/reports"
	"github.com/pharmeo/pharmeo/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler wires ledger endpoints to the journal service and report façade.
type Handler struct {
	logger   *slog.Logger
	journals *journals.Service
	reports  *reports.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, journalSvc *journals.Service, reportSvc *reports.Service) *Handler {
	return &Handler{logger: logger, journals: journalSvc, reports: reportSvc}
}

type journalLinePayload struct {
	AccountCode string `json:"account_code"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description"`
}

type createJournalPayload struct {
	TenantID     string               `json:"tenant_id"`
	EntryDate    string               `json:"entry_date"`
	Description  string               `json:"description"`
	SourceModule string               `json:"source_module"`
	SourceID     string               `json:"source_id"`
	Lines        []journalLinePayload `json:"lines"`
}

func (h *Handler) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var payload createJournalPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed json body")
		return
	}
	input, err := payload.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.journals.CreateEntry(r.Context(), input)
	if err != nil {
		h.logger.Error("create journal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) handlePostJournal(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "tenant_id must be a uuid")
		return
	}
	entryID, err := strconv.ParseInt(chiURLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be an integer")
		return
	}
	entry, err := h.journals.PostEntry(r.Context(), tenantID, entryID)
	if err != nil {
		h.logger.Error("post journal", slog.Int64("entry_id", entryID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "tenant_id must be a uuid")
		return
	}
	entryID, err := strconv.ParseInt(chiURLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be an integer")
		return
	}
	entry, err := h.journals.GetEntry(r.Context(), tenantID, entryID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) handleListJournals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tenantID, err := uuid.Parse(q.Get("tenant_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "tenant_id must be a uuid")
		return
	}
	filter := journals.ListFilter{Status: ledger.EntryStatus(q.Get("status"))}
	parseDate := func(name string) (*time.Time, bool) {
		raw := q.Get(name)
		if raw == "" {
			return nil, true
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, false
		}
		return &t, true
	}
	var ok bool
	if filter.From, ok = parseDate("from"); !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "from must be YYYY-MM-DD")
		return
	}
	if filter.To, ok = parseDate("to"); !ok {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "to must be YYYY-MM-DD")
		return
	}
	if raw := q.Get("limit"); raw != "" {
		if filter.Limit, err = strconv.Atoi(raw); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be an integer")
			return
		}
	}
	entries, err := h.journals.ListEntries(r.Context(), tenantID, filter)
	if err != nil {
		h.logger.Error("list journals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []ledger.JournalEntry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) handleReport(reportType reports.ReportType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseReportRequest(r, reportType)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		report, err := h.reports.GenerateReport(r.Context(), req)
		if err != nil {
			h.logger.Error("generate report",
				slog.String("report_type", string(reportType)),
				slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, report)
	}
}

func parseReportRequest(r *http.Request, reportType reports.ReportType) (reports.Request, error) {
	q := r.URL.Query()
	req := reports.Request{Type: reportType, AccountCode: q.Get("account_code")}

	tenantID, err := uuid.Parse(q.Get("tenant_id"))
	if err != nil {
		return reports.Request{}, errParam("tenant_id", "must be a uuid")
	}
	req.TenantID = tenantID

	parseDate := func(name string) (*time.Time, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errParam(name, "must be YYYY-MM-DD")
		}
		return &t, nil
	}
	if req.StartDate, err = parseDate("start_date"); err != nil {
		return reports.Request{}, err
	}
	if req.EndDate, err = parseDate("end_date"); err != nil {
		return reports.Request{}, err
	}
	if req.AsOfDate, err = parseDate("as_of_date"); err != nil {
		return reports.Request{}, err
	}
	if raw := q.Get("year"); raw != "" {
		if req.Year, err = strconv.Atoi(raw); err != nil {
			return reports.Request{}, errParam("year", "must be an integer")
		}
	}
	if raw := q.Get("month"); raw != "" {
		if req.Month, err = strconv.Atoi(raw); err != nil {
			return reports.Request{}, errParam("month", "must be an integer")
		}
	}
	return req, nil
}

func (p createJournalPayload) toInput() (journals.CreateInput, error) {
	tenantID, err := uuid.Parse(p.TenantID)
	if err != nil {
		return journals.CreateInput{}, errParam("tenant_id", "must be a uuid")
	}
	entryDate, err := time.Parse(dateLayout, p.EntryDate)
	if err != nil {
		return journals.CreateInput{}, errParam("entry_date", "must be YYYY-MM-DD")
	}
	input := journals.CreateInput{
		TenantID:     tenantID,
		EntryDate:    entryDate,
		Description:  p.Description,
		SourceModule: p.SourceModule,
	}
	if p.SourceID != "" {
		if input.SourceID, err = uuid.Parse(p.SourceID); err != nil {
			return journals.CreateInput{}, errParam("source_id", "must be a uuid")
		}
	}
	for idx, line := range p.Lines {
		debit, err := parseAmount(line.Debit)
		if err != nil {
			return journals.CreateInput{}, errParam("lines", "line "+strconv.Itoa(idx)+" debit must be a decimal")
		}
		credit, err := parseAmount(line.Credit)
		if err != nil {
			return journals.CreateInput{}, errParam("lines", "line "+strconv.Itoa(idx)+" credit must be a decimal")
		}
		input.Lines = append(input.Lines, journals.LineInput{
			AccountCode: line.AccountCode,
			Debit:       debit,
			Credit:      credit,
			Description: line.Description,
		})
	}
	return input, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

type paramError struct {
	name   string
	reason string
}

func (e paramError) Error() string {
	return e.name + " " + e.reason
}

func errParam(name, reason string) error {
	return paramError{name: name, reason: reason}
}
