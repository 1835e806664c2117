package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// The happy path talks to Postgres; these cover the request validation that
// rejects before the service is ever reached.
func TestPlaceOrderHandler_Validation(t *testing.T) {
	h := PlaceOrderHandler(nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed json",
			body:     `{"table_number": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing table number",
			body:     `{"items": [{"dish_id": "d1", "quantity": 1}]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "no items",
			body:     `{"table_number": 4, "items": []}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "zero quantity",
			body:     `{"table_number": 4, "items": [{"dish_id": "d1", "quantity": 0}]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "missing dish id",
			body:     `{"table_number": 4, "items": [{"quantity": 2}]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestUpdateOrderStatusHandler_Validation(t *testing.T) {
	h := UpdateOrderStatusHandler(nil)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "empty status", body: `{"status": ""}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/orders/abc/status", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
