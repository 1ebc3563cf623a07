package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, name, brand, price, age_group, food_type, description, full_ingredient_list, image_url, shopping_url, embedding_id`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM cat_food_product
		ORDER BY id
		OFFSET $1 LIMIT $2
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM cat_food_product
		WHERE id = $1
	`
	findProductsByNameQuery = `
		SELECT ` + productColumns + `
		FROM cat_food_product
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id
	`
	insertProductQuery = `
		INSERT INTO cat_food_product (name, brand, price, age_group, food_type, description, full_ingredient_list, image_url, shopping_url, embedding_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE cat_food_product
		SET name = $1,
			brand = $2,
			price = $3,
			age_group = $4,
			food_type = $5,
			description = $6,
			full_ingredient_list = $7,
			image_url = $8,
			shopping_url = $9
		WHERE id = $10
	`
	productIngredientsQuery = `
		SELECT i.id, i.name
		FROM ingredient i
		JOIN product_ingredient_association a ON a.ingredient_id = i.id
		WHERE a.product_id = $1
		ORDER BY i.id
	`
	insertAssociationQuery = `
		INSERT INTO product_ingredient_association (product_id, ingredient_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	deleteAssociationsQuery     = `DELETE FROM product_ingredient_association WHERE product_id = $1`
	deleteProductQuery          = `DELETE FROM cat_food_product WHERE id = $1`
	deleteManyAssociationsQuery = `DELETE FROM product_ingredient_association WHERE product_id = ANY($1::int[])`
	deleteManyProductsQuery     = `DELETE FROM cat_food_product WHERE id = ANY($1::int[])`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(offset, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(listProductsQuery, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	refs, err := r.ingredientRefs(id)
	if err != nil {
		return Product{}, err
	}
	p.Ingredients = refs
	return p, nil
}

func (r *PostgresRepository) FindByNameContains(substr string) ([]Product, error) {
	rows, err := r.db.Query(findProductsByNameQuery, substr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Product{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int
	err = tx.QueryRow(
		insertProductQuery,
		p.Name,
		p.Brand,
		p.Price,
		p.AgeGroup,
		p.FoodType,
		p.Description,
		p.FullIngredientList,
		p.ImageURL,
		p.ShoppingURL,
		p.EmbeddingID,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	for _, ingID := range p.IngredientIDs {
		if _, err := tx.Exec(insertAssociationQuery, id, ingID); err != nil {
			return Product{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Product{}, err
	}
	p.ID = id
	return r.GetByID(id)
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name,
		p.Brand,
		p.Price,
		p.AgeGroup,
		p.FoodType,
		p.Description,
		p.FullIngredientList,
		p.ImageURL,
		p.ShoppingURL,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

// Delete removes the product's association rows and then the product itself,
// in one transaction. The ordering satisfies the foreign keys.
func (r *PostgresRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(deleteAssociationsQuery, id); err != nil {
		return err
	}
	result, err := tx.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *PostgresRepository) DeleteMany(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(deleteManyAssociationsQuery, pq.Array(ids)); err != nil {
		return err
	}
	if _, err := tx.Exec(deleteManyProductsQuery, pq.Array(ids)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresRepository) ingredientRefs(productID int) ([]IngredientRef, error) {
	rows, err := r.db.Query(productIngredientsQuery, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]IngredientRef, 0)
	for rows.Next() {
		var ref IngredientRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		price          sql.NullFloat64
		ageGroup       sql.NullString
		foodType       sql.NullString
		description    sql.NullString
		ingredientList sql.NullString
		imageURL       sql.NullString
		shoppingURL    sql.NullString
		embeddingID    sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&price,
		&ageGroup,
		&foodType,
		&description,
		&ingredientList,
		&imageURL,
		&shoppingURL,
		&embeddingID,
	); err != nil {
		return Product{}, err
	}

	if price.Valid {
		p.Price = &price.Float64
	}
	if ageGroup.Valid {
		p.AgeGroup = &ageGroup.String
	}
	if foodType.Valid {
		p.FoodType = &foodType.String
	}
	if description.Valid {
		p.Description = &description.String
	}
	if ingredientList.Valid {
		p.FullIngredientList = &ingredientList.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if shoppingURL.Valid {
		p.ShoppingURL = &shoppingURL.String
	}
	if embeddingID.Valid {
		p.EmbeddingID = &embeddingID.String
	}

	return p, nil
}
