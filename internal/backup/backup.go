// Package backup snapshots the catalog tables to CSV files, meant to run
// before destructive imports or bulk deletions.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

type productRow struct {
	ID                 int     `csv:"id"`
	Name               string  `csv:"name"`
	Brand              string  `csv:"brand"`
	Price              float64 `csv:"price"`
	AgeGroup           string  `csv:"age_group"`
	FoodType           string  `csv:"food_type"`
	Description        string  `csv:"description"`
	FullIngredientList string  `csv:"full_ingredient_list"`
	ImageURL           string  `csv:"image_url"`
	ShoppingURL        string  `csv:"shopping_url"`
	EmbeddingID        string  `csv:"embedding_id"`
}

type ingredientRow struct {
	ID               int    `csv:"id"`
	Name             string `csv:"name"`
	Description      string `csv:"description"`
	NutritionalValue string `csv:"nutritional_value"`
	CommonAllergens  string `csv:"common_allergens"`
}

type associationRow struct {
	ProductID    int `csv:"product_id"`
	IngredientID int `csv:"ingredient_id"`
}

// Summary reports how many rows each table contributed.
type Summary struct {
	Dir          string
	Products     int
	Ingredients  int
	Associations int
}

// Run writes products.csv, ingredients.csv and associations.csv into dir.
// An empty dir gets a timestamped default under ./backups.
func Run(db *sql.DB, dir string) (Summary, error) {
	if dir == "" {
		dir = filepath.Join("backups", time.Now().Format("20060102_150405"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create backup dir: %w", err)
	}

	summary := Summary{Dir: dir}
	var err error
	if summary.Products, err = backupProducts(db, filepath.Join(dir, "products.csv")); err != nil {
		return Summary{}, err
	}
	if summary.Ingredients, err = backupIngredients(db, filepath.Join(dir, "ingredients.csv")); err != nil {
		return Summary{}, err
	}
	if summary.Associations, err = backupAssociations(db, filepath.Join(dir, "associations.csv")); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func backupProducts(db *sql.DB, path string) (int, error) {
	rows, err := db.Query(`
		SELECT id, name, brand, price, age_group, food_type, description,
		       full_ingredient_list, image_url, shopping_url, embedding_id
		FROM cat_food_product ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]productRow, 0)
	for rows.Next() {
		var r productRow
		var price sql.NullFloat64
		var age, food, desc, list, img, shop, embedding sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Brand, &price, &age, &food, &desc, &list, &img, &shop, &embedding); err != nil {
			return 0, fmt.Errorf("scan product: %w", err)
		}
		r.Price = price.Float64
		r.AgeGroup = age.String
		r.FoodType = food.String
		r.Description = desc.String
		r.FullIngredientList = list.String
		r.ImageURL = img.String
		r.ShoppingURL = shop.String
		r.EmbeddingID = embedding.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(out), writeCSV(path, &out)
}

func backupIngredients(db *sql.DB, path string) (int, error) {
	rows, err := db.Query(`
		SELECT id, name, description, nutritional_value, common_allergens
		FROM ingredient ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]ingredientRow, 0)
	for rows.Next() {
		var r ingredientRow
		var desc, nutritional, allergens sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &desc, &nutritional, &allergens); err != nil {
			return 0, fmt.Errorf("scan ingredient: %w", err)
		}
		r.Description = desc.String
		r.NutritionalValue = nutritional.String
		r.CommonAllergens = allergens.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(out), writeCSV(path, &out)
}

func backupAssociations(db *sql.DB, path string) (int, error) {
	rows, err := db.Query(`
		SELECT product_id, ingredient_id
		FROM product_ingredient_association ORDER BY product_id, ingredient_id`)
	if err != nil {
		return 0, fmt.Errorf("query associations: %w", err)
	}
	defer rows.Close()

	out := make([]associationRow, 0)
	for rows.Next() {
		var r associationRow
		if err := rows.Scan(&r.ProductID, &r.IngredientID); err != nil {
			return 0, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return len(out), writeCSV(path, &out)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
