package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"slotbooking/internal/domain"
)

// conflicts are the business rule violations reported as 400 with code "conflict".
var conflicts = []error{
	domain.ErrAlreadyBooked,
	domain.ErrSlotFull,
	domain.ErrDuplicateSlot,
	domain.ErrDuplicateEmail,
}

// WriteServiceError maps a service error onto the API envelope. notFound is the
// message used for domain.ErrNotFound. Unmapped errors are logged and reported
// as a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		if len(verr.Slots) > 0 {
			WriteJSONErrorDetails(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Message, verr.Slots)
			return
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Message)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
		return
	}
	for _, c := range conflicts {
		if errors.Is(err, c) {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeConflict, c.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
