package handler

import (
	"net/http"
	"strconv"

	"bistro/internal/service"
)

func PreviewDiscountHandler(discountSvc *service.DiscountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}

		subtotal, err := strconv.ParseFloat(r.URL.Query().Get("subtotal"), 64)
		if err != nil || subtotal < 0 {
			http.Error(w, "invalid subtotal", http.StatusBadRequest)
			return
		}

		preview, err := discountSvc.Preview(r.Context(), code, subtotal)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, preview)
	}
}
