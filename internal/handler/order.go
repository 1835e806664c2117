package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bistro/internal/mw"
	"bistro/internal/service"
)

type placeOrderRequest struct {
	TableNumber int                 `json:"table_number"`
	CustomerID  *string             `json:"customer_id,omitempty"`
	Items       []service.PlaceItem `json:"items"`
}

func PlaceOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if req.TableNumber < 1 {
			http.Error(w, "invalid table number", http.StatusUnprocessableEntity)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "order needs at least one item", http.StatusUnprocessableEntity)
			return
		}
		for _, item := range req.Items {
			if item.DishID == "" || item.Quantity < 1 {
				http.Error(w, "invalid order item", http.StatusUnprocessableEntity)
				return
			}
		}

		place := &service.PlaceRequest{
			TableNumber: req.TableNumber,
			Items:       req.Items,
		}

		// Self-service orders carry the authenticated customer; staff-entered
		// orders may name a customer or none at all.
		if role, _ := r.Context().Value(mw.RoleCtxKey).(string); role == mw.RoleCustomer {
			customerID := r.Context().Value(mw.UserCtxKey).(string)
			place.CustomerID = &customerID
			place.SelfService = true
		} else {
			place.CustomerID = req.CustomerID
		}

		order, err := orderSvc.Place(r.Context(), place)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

func GetOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		order, err := orderSvc.Get(r.Context(), orderID, customerScope(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderSvc.ListByCustomer(r.Context(), customerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func KitchenOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := orderSvc.ListKitchen(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func UpdateOrderStatusHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		var req statusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Status == "" {
			http.Error(w, "status required", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Transition(r.Context(), orderID, req.Status)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

func CancelOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		order, err := orderSvc.Cancel(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, order)
	}
}

// customerScope returns the authenticated customer's id for ownership
// filtering, or nil for staff, who see everything.
func customerScope(r *http.Request) *string {
	role, _ := r.Context().Value(mw.RoleCtxKey).(string)
	if role != mw.RoleCustomer {
		return nil
	}
	customerID, ok := r.Context().Value(mw.UserCtxKey).(string)
	if !ok {
		return nil
	}
	return &customerID
}
