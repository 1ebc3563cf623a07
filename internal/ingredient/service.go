package ingredient

import "strings"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(offset, limit int) ([]Ingredient, error) {
	return s.repo.List(offset, limit)
}

func (s *Service) GetByID(id int) (Ingredient, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetByName(name string) (Ingredient, error) {
	return s.repo.GetByName(name)
}

func (s *Service) Create(i Ingredient) (Ingredient, error) {
	return s.repo.Create(i)
}

// GetOrCreateByNames resolves each name to an existing ingredient
// (case-insensitive) or creates it with the given casing. Blank and
// duplicate names within the input are skipped.
func (s *Service) GetOrCreateByNames(names []string) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		existing, err := s.repo.GetByName(name)
		if err == nil {
			out = append(out, existing)
			continue
		}
		if err != ErrNotFound {
			return nil, err
		}
		created, err := s.repo.Create(Ingredient{Name: name})
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}
