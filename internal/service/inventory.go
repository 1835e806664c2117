package service

import (
	"context"
	"database/sql"
	"fmt"

	"bistro/internal/model"
)

type InventoryService struct {
	db *sql.DB
}

func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{db: db}
}

// recipeFor resolves a dish's ingredient requirements per unit ordered.
// Rows come back in ingredient id order so concurrent deductions lock
// ingredients in a consistent order.
func recipeFor(ctx context.Context, tx *sql.Tx, dishID string) ([]model.RecipeEntry, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT dish_id, ingredient_id, quantity_required
		FROM dish_ingredients
		WHERE dish_id = $1
		ORDER BY ingredient_id
	`, dishID)
	if err != nil {
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	defer rows.Close()

	var recipe []model.RecipeEntry
	for rows.Next() {
		var e model.RecipeEntry
		if err := rows.Scan(&e.DishID, &e.IngredientID, &e.QuantityPer); err != nil {
			return nil, fmt.Errorf("scan recipe entry: %w", err)
		}
		recipe = append(recipe, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return recipe, nil
}

// deduct subtracts a dish's recipe requirements from stock inside the
// caller's transaction. Any shortfall fails the whole transaction, so no
// partial deduction ever survives.
func deduct(ctx context.Context, tx *sql.Tx, dishID string, quantity int) error {
	recipe, err := recipeFor(ctx, tx, dishID)
	if err != nil {
		return err
	}

	for _, entry := range recipe {
		required := entry.QuantityPer * float64(quantity)
		res, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET current_stock = current_stock - $1
			WHERE id = $2 AND current_stock >= $1
		`, required, entry.IngredientID)
		if err != nil {
			return fmt.Errorf("deduct stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deduct stock: %w", err)
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
	}

	return nil
}

// restore is the exact inverse of deduct, used on cancellation. It trusts
// that a matching deduction happened earlier.
func restore(ctx context.Context, tx *sql.Tx, dishID string, quantity int) error {
	recipe, err := recipeFor(ctx, tx, dishID)
	if err != nil {
		return err
	}

	for _, entry := range recipe {
		required := entry.QuantityPer * float64(quantity)
		_, err := tx.ExecContext(ctx, `
			UPDATE ingredients
			SET current_stock = current_stock + $1
			WHERE id = $2
		`, required, entry.IngredientID)
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	return nil
}

// LowStock lists ingredients at or below their low-stock threshold.
func (s *InventoryService) LowStock(ctx context.Context) ([]model.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, current_stock, unit, low_stock_threshold
		FROM ingredients
		WHERE current_stock <= low_stock_threshold
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.CurrentStock, &ing.Unit, &ing.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return ingredients, nil
}
