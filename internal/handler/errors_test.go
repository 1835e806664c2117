package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistro/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{service.ErrOrderNotFound, http.StatusNotFound},
		{service.ErrBillNotFound, http.StatusNotFound},
		{service.ErrDishNotFound, http.StatusNotFound},
		{service.ErrInvalidStatus, http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{service.ErrInvalidDiscount, http.StatusBadRequest},
		{service.ErrInsufficientCoins, http.StatusPaymentRequired},
		{service.ErrInsufficientStock, http.StatusConflict},
		{service.ErrOrderTerminal, http.StatusConflict},
		{service.ErrBillPaid, http.StatusConflict},
		{service.ErrBelowMinimum, http.StatusConflict},
		{service.ErrNothingRedeemed, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
