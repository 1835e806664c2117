package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bistro/internal/service"
)

func GetBillHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		bill, err := billSvc.Get(r.Context(), billID, customerScope(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bill)
	}
}

func ListUnpaidBillsHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bills, err := billSvc.ListUnpaid(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bills)
	}
}

type discountRequest struct {
	Code string `json:"code"`
}

func ApplyDiscountHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		var req discountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Code == "" {
			http.Error(w, "discount code required", http.StatusBadRequest)
			return
		}

		if err := requireBillAccess(r, billSvc, billID); err != nil {
			writeServiceError(w, err)
			return
		}

		bill, err := billSvc.ApplyDiscount(r.Context(), billID, req.Code)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if bill.DiscountPending {
			writeJSON(w, http.StatusAccepted, map[string]any{
				"message": "discount requested, awaiting staff approval",
				"bill":    bill,
			})
			return
		}
		writeJSON(w, http.StatusOK, bill)
	}
}

func ApproveDiscountHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		bill, err := billSvc.ApproveDiscount(r.Context(), billID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bill)
	}
}

func RemoveDiscountHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		if err := requireBillAccess(r, billSvc, billID); err != nil {
			writeServiceError(w, err)
			return
		}

		bill, err := billSvc.RemoveDiscount(r.Context(), billID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bill)
	}
}

type redeemCoinsRequest struct {
	Coins      int     `json:"coins"`
	CustomerID *string `json:"customer_id,omitempty"`
}

func RedeemCoinsHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		var req redeemCoinsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Customers spend their own coins; staff must name the customer.
		customerID := ""
		if scope := customerScope(r); scope != nil {
			customerID = *scope
			if err := requireBillAccess(r, billSvc, billID); err != nil {
				writeServiceError(w, err)
				return
			}
		} else if req.CustomerID != nil {
			customerID = *req.CustomerID
		}
		if customerID == "" {
			http.Error(w, "customer_id required", http.StatusBadRequest)
			return
		}

		bill, remaining, err := billSvc.RedeemCoins(r.Context(), billID, customerID, req.Coins)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"bill":              bill,
			"remaining_balance": remaining,
		})
	}
}

func RemoveCoinsHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		if err := requireBillAccess(r, billSvc, billID); err != nil {
			writeServiceError(w, err)
			return
		}

		bill, balance, err := billSvc.RemoveCoins(r.Context(), billID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"bill":             bill,
			"restored_balance": balance,
		})
	}
}

func MarkPaidHandler(billSvc *service.BillService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		billID := chi.URLParam(r, "id")

		result, err := billSvc.MarkPaid(r.Context(), billID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// requireBillAccess enforces the ownership rule for customer callers: a
// bill that holds none of the customer's orders reads as not found.
func requireBillAccess(r *http.Request, billSvc *service.BillService, billID string) error {
	scope := customerScope(r)
	if scope == nil {
		return nil
	}
	_, err := billSvc.Get(r.Context(), billID, scope)
	return err
}
