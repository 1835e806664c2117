package service

import (
	"context"
	"database/sql"
	"fmt"

	"bistro/internal/model"
)

// MenuService is read-only from the core's point of view; dish management
// happens outside this system.
type MenuService struct {
	db *sql.DB
}

func NewMenuService(db *sql.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) ListDishes(ctx context.Context) ([]model.Dish, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, food_type FROM dishes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query dishes: %w", err)
	}
	defer rows.Close()

	var dishes []model.Dish
	for rows.Next() {
		var d model.Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.FoodType); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return dishes, nil
}
