package ingredient

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("ingredient not found")

type Repository interface {
	List(offset, limit int) ([]Ingredient, error)
	GetByID(id int) (Ingredient, error)
	// GetByName matches case-insensitively; importers feed it names in
	// whatever casing the source data uses.
	GetByName(name string) (Ingredient, error)
	Create(i Ingredient) (Ingredient, error)
}

// InMemoryRepository backs tests and local runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Ingredient
	nextID  int
}

func NewInMemoryRepository(seed []Ingredient) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Ingredient, 0, len(seed)),
		nextID:  1,
	}
	maxID := 0
	for _, i := range seed {
		r.storage = append(r.storage, i)
		if i.ID > maxID {
			maxID = i.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(offset, limit int) ([]Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]Ingredient, len(r.storage))
	copy(sorted, r.storage)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if offset >= len(sorted) {
		return []Ingredient{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (r *InMemoryRepository) GetByID(id int) (Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.storage {
		if i.ID == id {
			return i, nil
		}
	}
	return Ingredient{}, ErrNotFound
}

func (r *InMemoryRepository) GetByName(name string) (Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.storage {
		if strings.EqualFold(i.Name, name) {
			return i, nil
		}
	}
	return Ingredient{}, ErrNotFound
}

func (r *InMemoryRepository) Create(i Ingredient) (Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ID == 0 {
		i.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, i)
	return i, nil
}
