package httpx

import (
	"errors"
	"net/http"

	"github.com/pharmeo/pharmeo/internal/ledger"
	"github.com/pharmeo/pharmeo/internal/ledger/reports"
)

// RespondError maps ledger domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, ledger.ErrEntryNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, reports.ErrInvalidReportType),
		errors.Is(err, reports.ErrMissingParameter),
		errors.Is(err, ledger.ErrUnbalanced),
		errors.Is(err, ledger.ErrTooFewLines),
		errors.Is(err, ledger.ErrAccountNotPostable):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ledger.ErrInvalidStatus), errors.Is(err, ledger.ErrSourceAlreadyLinked):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, reports.ErrStoreUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Store Unavailable", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
