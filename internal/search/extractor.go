package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/catfoodlab/catfood-backend/internal/llm"
)

const extractionPromptTemplate = `You are a filter extractor for a cat food catalog.
From the user query below, extract a compact JSON object with exactly these fields:
  "food_type": wet, dry or snack if mentioned, otherwise null
  "age_group": kitten, adult or senior if mentioned, otherwise null
  "brand": the brand name if mentioned, otherwise null
  "max_price": a number if a price limit is mentioned, otherwise null
Reply with the JSON object only, no explanation.

Example:
Query: Find wet food for kittens
{"food_type": "wet", "age_group": "kitten", "brand": null, "max_price": null}

Query: %s
`

// Extractor turns a free-text query into a Filter via one model completion.
// It fails open: any model or parse failure degrades to the empty filter so
// search still answers, just more broadly.
type Extractor struct {
	completer llm.Completer
	timeout   time.Duration
}

func NewExtractor(completer llm.Completer, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{completer: completer, timeout: timeout}
}

func (e *Extractor) Extract(ctx context.Context, query string) Filter {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, fmt.Sprintf(extractionPromptTemplate, query))
	if err != nil {
		zap.S().Warnw("filter extraction failed, falling back to unfiltered search", "error", err)
		return Filter{}
	}

	filter, err := parseFilter(raw)
	if err != nil {
		zap.S().Warnw("could not parse filter from model output, falling back to unfiltered search", "error", err)
		return Filter{}
	}
	return filter
}
