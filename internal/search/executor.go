package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// NoResultsMessage is returned verbatim when nothing matches the filter.
const NoResultsMessage = "No products found matching your criteria."

// resultCap is a fixed ceiling, not a page size; search has no pagination.
const resultCap = 20

// Executor runs a filtered SELECT over cat_food_product and renders the
// matches as text. Filter values come from an LLM's reading of untrusted
// user text, so every value is bound as a parameter; only the structural
// ILIKE / comparison shape is fixed in the SQL.
type Executor struct {
	db      *sql.DB
	timeout time.Duration
}

func NewExecutor(db *sql.DB, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{db: db, timeout: timeout}
}

type productRow struct {
	name     string
	brand    string
	price    sql.NullFloat64
	foodType sql.NullString
	ageGroup sql.NullString
}

func (e *Executor) Search(ctx context.Context, filter Filter) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	query, args := buildQuery(filter)
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("execute product search: %w", err)
	}
	defer rows.Close()

	matches := make([]productRow, 0, resultCap)
	for rows.Next() {
		var p productRow
		if err := rows.Scan(&p.name, &p.brand, &p.price, &p.foodType, &p.ageGroup); err != nil {
			return "", fmt.Errorf("scan product row: %w", err)
		}
		matches = append(matches, p)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate product rows: %w", err)
	}

	return renderResults(matches), nil
}

// buildQuery assembles the WHERE clause as an AND of one condition per set
// filter field. A NULL price never satisfies the max_price comparison, which
// keeps unpriced products out of price-capped results.
func buildQuery(filter Filter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	appendLike := func(column string, value string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", column, len(args)))
	}

	if filter.FoodType != nil {
		appendLike("food_type", *filter.FoodType)
	}
	if filter.AgeGroup != nil {
		appendLike("age_group", *filter.AgeGroup)
	}
	if filter.Brand != nil {
		appendLike("brand", *filter.Brand)
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT name, brand, price, food_type, age_group
		FROM cat_food_product
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT %d
	`, where, resultCap)
	return query, args
}

func renderResults(matches []productRow) string {
	if len(matches) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d product(s):\n", len(matches))
	for _, p := range matches {
		price := "N/A"
		if p.price.Valid {
			price = fmt.Sprintf("%.2f", p.price.Float64)
		}
		fmt.Fprintf(&b, "%s by %s ($%s) - %s food for %s\n",
			p.name, p.brand, price, p.foodType.String, p.ageGroup.String)
	}
	return strings.TrimRight(b.String(), "\n")
}
