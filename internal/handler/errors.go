package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bistro/internal/service"
)

// writeServiceError maps the service sentinels onto HTTP statuses. Unknown
// errors stay generic so nothing internal leaks to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrBillNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrDishNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidCoinCount),
		errors.Is(err, service.ErrInvalidDiscount):
		http.Error(w, err.Error(), http.StatusBadRequest)

	case errors.Is(err, service.ErrInsufficientCoins):
		http.Error(w, err.Error(), http.StatusPaymentRequired)

	case errors.Is(err, service.ErrOrderTerminal),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrBillPaid),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrNoPendingDiscount),
		errors.Is(err, service.ErrNothingRedeemed):
		http.Error(w, err.Error(), http.StatusConflict)

	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
