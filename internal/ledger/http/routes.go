package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/pharmeo/pharmeo/internal/ledger/reports"
)

func chiURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// MountRoutes registers ledger routes. Report generation is rate limited per
// client since a single request can scan a tenant's full posting history.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/journals", h.handleCreateJournal)
	r.Get("/journals", h.handleListJournals)
	r.Get("/journals/{id}", h.handleGetJournal)
	r.Post("/journals/{id}/post", h.handlePostJournal)

	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Get("/reports/trial-balance", h.handleReport(reports.TypeTrialBalance))
		r.Get("/reports/income-statement", h.handleReport(reports.TypeIncomeStatement))
		r.Get("/reports/balance-sheet", h.handleReport(reports.TypeBalanceSheet))
		r.Get("/reports/general-ledger", h.handleReport(reports.TypeGeneralLedger))
		r.Get("/reports/g50", h.handleReport(reports.TypeG50))
	})
}
