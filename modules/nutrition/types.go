package nutrition

// Food is a catalog entry with its base macros per 100g.
type Food struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DietItem is one food entry inside a meal.
type DietItem struct {
	ID             string  `json:"id"`
	QuantityGrams  float64 `json:"quantity_grams"`
	PortionDisplay string  `json:"portion_display,omitempty"`
	IsFlexible     bool    `json:"is_flexible"`
	Food           Food    `json:"food"`
}

// Meal groups diet items under a named slot ("Desayuno", "Almuerzo", ...).
// TotalCalories is computed by the backend.
type Meal struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	OrderIndex    int        `json:"order_index"`
	TimeOfDay     string     `json:"time_of_day,omitempty"`
	Items         []DietItem `json:"items"`
	TotalCalories float64    `json:"total_calories,omitempty"`
}

// DietPlan is the full meal tree the patient follows between two dates.
type DietPlan struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date,omitempty"`
	KcalTarget       int    `json:"kcal_target"`
	IsFlexibleGlobal bool   `json:"is_flexible_global"`
	Meals            []Meal `json:"meals"`
}
