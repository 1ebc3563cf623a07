package product

// Product represents a cat-food product and maps to the `cat_food_product`
// table. age_group and food_type are intentionally free text: real rows carry
// qualifiers such as "Kitten (1-12m)", so filtering matches by substring, not
// equality.
type Product struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Brand              string   `json:"brand"`
	Price              *float64 `json:"price,omitempty"`
	AgeGroup           *string  `json:"age_group,omitempty"`
	FoodType           *string  `json:"food_type,omitempty"`
	Description        *string  `json:"description,omitempty"`
	FullIngredientList *string  `json:"full_ingredient_list,omitempty"`
	ImageURL           *string  `json:"image_url,omitempty"`
	ShoppingURL        *string  `json:"shopping_url,omitempty"`
	EmbeddingID        *string  `json:"embedding_id,omitempty"`

	// Ingredients linked through product_ingredient_association, populated on
	// reads. IngredientIDs is only consumed on create/update.
	Ingredients   []IngredientRef `json:"ingredients,omitempty"`
	IngredientIDs []int           `json:"ingredient_ids,omitempty"`
}

// IngredientRef is the slim ingredient view embedded in product responses.
type IngredientRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
