package product

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(offset, limit int) ([]Product, error) {
	return s.repo.List(offset, limit)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) DeleteMany(ids []int) error {
	return s.repo.DeleteMany(ids)
}

// FindByNameContains is used by maintenance tooling to preview deletions.
func (s *Service) FindByNameContains(substr string) ([]Product, error) {
	return s.repo.FindByNameContains(substr)
}

// DeleteByNameContains removes every product whose name contains the
// substring (case-insensitive) and returns how many were removed.
// Association rows are removed first by the repository.
func (s *Service) DeleteByNameContains(substr string) (int, error) {
	matches, err := s.repo.FindByNameContains(substr)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}
	ids := make([]int, 0, len(matches))
	for _, p := range matches {
		ids = append(ids, p.ID)
	}
	if err := s.repo.DeleteMany(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
