package ingredient

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listIngredientsQuery = `
		SELECT id, name, description, nutritional_value, common_allergens
		FROM ingredient
		ORDER BY id
		OFFSET $1 LIMIT $2
	`
	getIngredientByIDQuery = `
		SELECT id, name, description, nutritional_value, common_allergens
		FROM ingredient
		WHERE id = $1
	`
	getIngredientByNameQuery = `
		SELECT id, name, description, nutritional_value, common_allergens
		FROM ingredient
		WHERE LOWER(name) = LOWER($1)
	`
	insertIngredientQuery = `
		INSERT INTO ingredient (name, description, nutritional_value, common_allergens)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(offset, limit int) ([]Ingredient, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(listIngredientsQuery, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ingredient, 0)
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Ingredient, error) {
	row := r.db.QueryRow(getIngredientByIDQuery, id)
	i, err := scanIngredient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Ingredient{}, ErrNotFound
		}
		return Ingredient{}, err
	}
	return i, nil
}

func (r *PostgresRepository) GetByName(name string) (Ingredient, error) {
	row := r.db.QueryRow(getIngredientByNameQuery, name)
	i, err := scanIngredient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Ingredient{}, ErrNotFound
		}
		return Ingredient{}, err
	}
	return i, nil
}

func (r *PostgresRepository) Create(i Ingredient) (Ingredient, error) {
	nutritional, err := marshalNullable(i.NutritionalValue)
	if err != nil {
		return Ingredient{}, err
	}
	allergens, err := marshalNullable(i.CommonAllergens)
	if err != nil {
		return Ingredient{}, err
	}

	var id int
	if err := r.db.QueryRow(insertIngredientQuery, i.Name, i.Description, nutritional, allergens).Scan(&id); err != nil {
		return Ingredient{}, err
	}
	i.ID = id
	return i, nil
}

// marshalNullable turns an empty map/slice into a SQL NULL instead of "null"
// JSON text.
func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case map[string]string:
		if len(val) == 0 {
			return nil, nil
		}
	case []string:
		if len(val) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(scanner rowScanner) (Ingredient, error) {
	i := Ingredient{}
	var (
		description sql.NullString
		nutritional []byte
		allergens   []byte
	)
	if err := scanner.Scan(&i.ID, &i.Name, &description, &nutritional, &allergens); err != nil {
		return Ingredient{}, err
	}
	if description.Valid {
		i.Description = &description.String
	}
	if len(nutritional) > 0 {
		if err := json.Unmarshal(nutritional, &i.NutritionalValue); err != nil {
			return Ingredient{}, err
		}
	}
	if len(allergens) > 0 {
		if err := json.Unmarshal(allergens, &i.CommonAllergens); err != nil {
			return Ingredient{}, err
		}
	}
	return i, nil
}
