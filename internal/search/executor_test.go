package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var resultColumns = []string{"name", "brand", "price", "food_type", "age_group"}

func newExecutorWithMock(t *testing.T) (*Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewExecutor(db, time.Second), mock
}

func TestSearch_EmptyFilterListsEverything(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	rows := sqlmock.NewRows(resultColumns).
		AddRow("Adult Chicken Pate", "Fancy Feast", 12.99, "Wet", "Adult").
		AddRow("Kitten Ocean Fish", "Purina", 8.49, "Wet (canned)", "Kitten (1-12m)")
	mock.ExpectQuery(`WHERE TRUE\s+ORDER BY name ASC, id ASC\s+LIMIT 20`).WillReturnRows(rows)

	out, err := e.Search(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	want := "Found 2 product(s):\n" +
		"Adult Chicken Pate by Fancy Feast ($12.99) - Wet food for Adult\n" +
		"Kitten Ocean Fish by Purina ($8.49) - Wet (canned) food for Kitten (1-12m)"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearch_SubstringFilterBindsValues(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	rows := sqlmock.NewRows(resultColumns).
		AddRow("Kitten Ocean Fish", "Purina", 8.49, "Wet (canned)", "Kitten (1-12m)")
	mock.ExpectQuery(`age_group ILIKE '%' \|\| \$1 \|\| '%'`).
		WithArgs("kitten").
		WillReturnRows(rows)

	out, err := e.Search(context.Background(), Filter{AgeGroup: str("kitten")})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "Kitten (1-12m)") {
		t.Fatalf("expected qualified age group in output: %s", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearch_AllFiltersInOrder(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	mock.ExpectQuery(`food_type ILIKE '%' \|\| \$1 \|\| '%' AND age_group ILIKE '%' \|\| \$2 \|\| '%' AND brand ILIKE '%' \|\| \$3 \|\| '%' AND price <= \$4`).
		WithArgs("wet", "kitten", "Purina", 20.0).
		WillReturnRows(sqlmock.NewRows(resultColumns))

	out, err := e.Search(context.Background(), Filter{
		FoodType: str("wet"),
		AgeGroup: str("kitten"),
		Brand:    str("Purina"),
		MaxPrice: f64(20),
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out != NoResultsMessage {
		t.Fatalf("expected sentinel, got %q", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearch_ZeroMatchesReturnsSentinelOnly(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	mock.ExpectQuery(`brand ILIKE`).
		WithArgs("NoSuchBrand").
		WillReturnRows(sqlmock.NewRows(resultColumns))

	out, err := e.Search(context.Background(), Filter{Brand: str("NoSuchBrand")})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out != "No products found matching your criteria." {
		t.Fatalf("unexpected sentinel: %q", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearch_InjectionAttemptStaysLiteral(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	hostile := `O'Brien' OR '1'='1`
	// The hostile string must arrive as a bound argument, never spliced into
	// the SQL text.
	mock.ExpectQuery(`brand ILIKE '%' \|\| \$1 \|\| '%'`).
		WithArgs(hostile).
		WillReturnRows(sqlmock.NewRows(resultColumns))

	out, err := e.Search(context.Background(), Filter{Brand: &hostile})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out != NoResultsMessage {
		t.Fatalf("expected no matches, got %q", out)
	}

	query, _ := buildQuery(Filter{Brand: &hostile})
	if strings.Contains(query, "O'Brien") {
		t.Fatalf("filter value leaked into SQL text: %s", query)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearch_DatabaseErrorPropagates(t *testing.T) {
	e, mock := newExecutorWithMock(t)

	mock.ExpectQuery(`FROM cat_food_product`).WillReturnError(errors.New("connection refused"))

	if _, err := e.Search(context.Background(), Filter{}); err == nil {
		t.Fatal("expected a database error to propagate")
	}
}

func TestRenderResults_MissingOptionalsUsePlaceholders(t *testing.T) {
	out := renderResults([]productRow{{name: "Mystery Mix", brand: "NoName"}})
	want := "Found 1 product(s):\nMystery Mix by NoName ($N/A) -  food for "
	if out != want {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestBuildQuery_CapAndOrderAreFixed(t *testing.T) {
	query, args := buildQuery(Filter{})
	if len(args) != 0 {
		t.Fatalf("expected no args for empty filter, got %v", args)
	}
	if !strings.Contains(query, "LIMIT 20") {
		t.Fatalf("expected fixed LIMIT 20: %s", query)
	}
	if !strings.Contains(query, "ORDER BY name ASC") {
		t.Fatalf("expected name ordering: %s", query)
	}
	if !strings.Contains(query, "WHERE TRUE") {
		t.Fatalf("expected TRUE predicate for empty filter: %s", query)
	}
}

func str(s string) *string { return &s }
