package search

import "context"

// Service chains extraction and execution. The asymmetry is deliberate:
// extraction failures degrade to the empty filter inside Extract, while
// database failures propagate, because a broader answer is still useful but
// no answer at all is not.
type Service struct {
	extractor *Extractor
	executor  *Executor
}

func NewService(extractor *Extractor, executor *Executor) *Service {
	return &Service{extractor: extractor, executor: executor}
}

func (s *Service) Search(ctx context.Context, query string) (string, error) {
	filter := s.extractor.Extract(ctx, query)
	return s.executor.Search(ctx, filter)
}
