package ingestion

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/catfoodlab/catfood-backend/internal/ingredient"
	"github.com/catfoodlab/catfood-backend/internal/product"
)

// Row is one product record from a CSV or Excel source. Price stays a string
// here because source files leave it blank or include currency noise; it is
// coerced during ingestion.
type Row struct {
	Name               string `csv:"name"`
	Brand              string `csv:"brand"`
	Price              string `csv:"price"`
	AgeGroup           string `csv:"age_group"`
	FoodType           string `csv:"food_type"`
	Description        string `csv:"description"`
	FullIngredientList string `csv:"full_ingredient_list"`
	ImageURL           string `csv:"image_url"`
	ShoppingURL        string `csv:"shopping_url"`
}

type Service struct {
	products    *product.Service
	ingredients *ingredient.Service
}

func NewService(products *product.Service, ingredients *ingredient.Service) *Service {
	return &Service{products: products, ingredients: ingredients}
}

// ParseIngredientList splits a comma-separated ingredient string into names.
func ParseIngredientList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// IngestRow creates one product with its linked ingredients. Ingredients are
// resolved get-or-create by name so repeated imports share rows.
func (s *Service) IngestRow(row Row) (product.Product, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return product.Product{}, fmt.Errorf("row has no product name")
	}
	brand := strings.TrimSpace(row.Brand)
	if brand == "" {
		brand = fallbackBrand(name)
	}

	var ingredientIDs []int
	if names := ParseIngredientList(row.FullIngredientList); len(names) > 0 {
		resolved, err := s.ingredients.GetOrCreateByNames(names)
		if err != nil {
			return product.Product{}, fmt.Errorf("resolve ingredients: %w", err)
		}
		for _, ing := range resolved {
			ingredientIDs = append(ingredientIDs, ing.ID)
		}
	}

	p := product.Product{
		Name:          name,
		Brand:         brand,
		IngredientIDs: ingredientIDs,
	}
	if price, err := cast.ToFloat64E(strings.TrimSpace(row.Price)); err == nil && price >= 0 && row.Price != "" {
		p.Price = &price
	}
	p.AgeGroup = optional(row.AgeGroup)
	p.FoodType = optional(row.FoodType)
	p.Description = optional(row.Description)
	p.FullIngredientList = optional(row.FullIngredientList)
	p.ImageURL = optional(row.ImageURL)
	p.ShoppingURL = optional(row.ShoppingURL)

	created, err := s.products.Create(p)
	if err != nil {
		return product.Product{}, fmt.Errorf("create product %q: %w", name, err)
	}
	return created, nil
}

// IngestCSV processes whole CSV content and returns how many products were
// created. Bad rows are logged and skipped so one malformed line cannot sink
// an import.
func (s *Service) IngestCSV(csvContent string) (int, error) {
	var rows []*Row
	if err := gocsv.UnmarshalString(csvContent, &rows); err != nil {
		return 0, fmt.Errorf("parse CSV: %w", err)
	}

	created := 0
	for _, row := range rows {
		if _, err := s.IngestRow(*row); err != nil {
			zap.S().Warnw("skipping CSV row", "name", row.Name, "error", err)
			continue
		}
		created++
	}
	return created, nil
}

// IngestRows imports already-parsed rows (the Excel path) with the same
// skip-on-error behavior as IngestCSV.
func (s *Service) IngestRows(rows []Row) (int, error) {
	created := 0
	for _, row := range rows {
		if _, err := s.IngestRow(row); err != nil {
			zap.S().Warnw("skipping imported row", "name", row.Name, "error", err)
			continue
		}
		created++
	}
	return created, nil
}

// fallbackBrand guesses a brand from the first word of the product name for
// source files that have no brand column.
func fallbackBrand(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[0]
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
