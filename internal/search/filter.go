package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Filter is the structured search intent extracted from a free-text query.
// A nil field means "no constraint", never "exclude all". String fields are
// matched by case-insensitive substring containment downstream.
type Filter struct {
	FoodType *string  `json:"food_type"`
	AgeGroup *string  `json:"age_group"`
	Brand    *string  `json:"brand"`
	MaxPrice *float64 `json:"max_price"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.FoodType == nil && f.AgeGroup == nil && f.Brand == nil && f.MaxPrice == nil
}

// parseFilter extracts the first brace-delimited JSON object from raw model
// output and validates it into a Filter. Model output is untrusted: the JSON
// may be wrapped in prose, fields may be missing, mistyped, or junk. Every
// failure is an error so the extractor can fall back to the empty filter.
func parseFilter(raw string) (Filter, error) {
	obj, err := firstJSONObject(raw)
	if err != nil {
		return Filter{}, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return Filter{}, fmt.Errorf("parse filter JSON: %w", err)
	}

	f := Filter{
		FoodType: stringField(fields, "food_type"),
		AgeGroup: stringField(fields, "age_group"),
		Brand:    stringField(fields, "brand"),
	}

	if v, ok := fields["max_price"]; ok && v != nil {
		price, err := cast.ToFloat64E(v)
		// Non-numeric or negative prices mean "no constraint", not an error.
		if err == nil && price >= 0 {
			f.MaxPrice = &price
		}
	}

	return f, nil
}

// firstJSONObject returns the first balanced {...} substring, skipping braces
// inside JSON string literals.
func firstJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in model output")
}

func stringField(fields map[string]any, key string) *string {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}
