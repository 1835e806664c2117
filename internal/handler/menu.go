package handler

import (
	"net/http"

	"bistro/internal/service"
)

func ListMenuHandler(menuSvc *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dishes, err := menuSvc.ListDishes(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dishes)
	}
}

func LowStockHandler(invSvc *service.InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := invSvc.LowStock(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ingredients)
	}
}
