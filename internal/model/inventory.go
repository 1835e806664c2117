package model

type Dish struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	FoodType string  `json:"food_type,omitempty"` // veg / non-veg
}

type Ingredient struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	CurrentStock      float64 `json:"current_stock"`
	Unit              string  `json:"unit"` // g, kg, ml, l, pcs
	LowStockThreshold float64 `json:"low_stock_threshold"`
}

// RecipeEntry maps one dish to one ingredient requirement per unit ordered.
type RecipeEntry struct {
	DishID       string  `json:"dish_id"`
	IngredientID string  `json:"ingredient_id"`
	QuantityPer  float64 `json:"quantity_required"`
}
