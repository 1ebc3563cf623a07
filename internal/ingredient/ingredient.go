package ingredient

// Ingredient maps to the `ingredient` table. nutritional_value and
// common_allergens are stored as JSONB.
type Ingredient struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Description      *string           `json:"description,omitempty"`
	NutritionalValue map[string]string `json:"nutritional_value,omitempty"`
	CommonAllergens  []string          `json:"common_allergens,omitempty"`
}
