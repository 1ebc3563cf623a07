package product

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(seed []Product) (*fiber.App, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	h := NewHandler(NewService(repo))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app, repo
}

func TestListProducts(t *testing.T) {
	app, _ := newTestApp([]Product{
		{ID: 1, Name: "Kitten Ocean Fish", Brand: "Purina"},
		{ID: 2, Name: "Adult Chicken Pate", Brand: "Fancy Feast"},
	})

	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var out []Product
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 products, got %d", len(out))
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	app, _ := newTestApp(nil)

	req := httptest.NewRequest("GET", "/api/v1/products/42", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCreateProduct_ValidatesPayload(t *testing.T) {
	app, _ := newTestApp(nil)

	body := `{"name": "", "brand": "", "price": -3}`
	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	raw, _ := io.ReadAll(res.Body)
	for _, field := range []string{"name", "brand", "price"} {
		if !strings.Contains(string(raw), field) {
			t.Errorf("expected validation error for %q in %s", field, raw)
		}
	}
}

func TestCreateProduct(t *testing.T) {
	app, repo := newTestApp(nil)

	body := `{"name": "Senior Salmon Dinner", "brand": "Whiskas", "price": 11.5, "age_group": "Senior (7+)", "food_type": "Wet"}`
	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	created, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("created product not stored: %v", err)
	}
	if created.Brand != "Whiskas" || created.Price == nil || *created.Price != 11.5 {
		t.Fatalf("unexpected stored product: %+v", created)
	}
}

func TestDeleteProduct(t *testing.T) {
	app, repo := newTestApp([]Product{{ID: 5, Name: "Old Stock", Brand: "NoName"}})

	req := httptest.NewRequest("DELETE", "/api/v1/products/5", nil)
	res, _ := app.Test(req)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if _, err := repo.GetByID(5); err != ErrNotFound {
		t.Fatalf("expected product to be gone, got %v", err)
	}
}

func TestBulkDelete(t *testing.T) {
	app, repo := newTestApp([]Product{
		{ID: 1, Name: "A", Brand: "B"},
		{ID: 2, Name: "C", Brand: "D"},
		{ID: 3, Name: "E", Brand: "F"},
	})

	req := httptest.NewRequest("POST", "/api/v1/admin/products/bulk-delete", strings.NewReader(`{"ids":[1,3]}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	remaining, _ := repo.List(0, 0)
	if len(remaining) != 1 || remaining[0].ID != 2 {
		t.Fatalf("unexpected remaining products: %+v", remaining)
	}
}

func TestBulkDelete_RequiresIDs(t *testing.T) {
	app, _ := newTestApp(nil)

	req := httptest.NewRequest("POST", "/api/v1/admin/products/bulk-delete", strings.NewReader(`{"ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}
