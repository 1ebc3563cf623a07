package ingestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
)

// Excel header names are matched case-insensitively against these aliases so
// hand-maintained spreadsheets with slightly different column names import
// without editing.
var headerAliases = map[string]string{
	"name":                 "name",
	"product":              "name",
	"product name":         "name",
	"brand":                "brand",
	"price":                "price",
	"ingredients":          "full_ingredient_list",
	"ingredient list":      "full_ingredient_list",
	"full_ingredient_list": "full_ingredient_list",
	"details":              "description",
	"description":          "description",
	"age_group":            "age_group",
	"age group":            "age_group",
	"age":                  "age_group",
	"food_type":            "food_type",
	"food type":            "food_type",
	"type":                 "food_type",
	"image_url":            "image_url",
	"image":                "image_url",
	"shopping_url":         "shopping_url",
	"shopping link":        "shopping_url",
	"url":                  "shopping_url",
}

// ParseExcel reads the active sheet of an xlsx file into ingestion rows.
// The first row is the header; rows without a name are dropped.
func ParseExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	cells := f.GetRows(sheet)
	if len(cells) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	fieldByColumn := make(map[int]string)
	for col, header := range cells[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if field, ok := headerAliases[key]; ok {
			if _, taken := fieldByColumn[col]; !taken {
				fieldByColumn[col] = field
			}
		}
	}

	hasName := false
	for _, field := range fieldByColumn {
		if field == "name" {
			hasName = true
			break
		}
	}
	if !hasName {
		return nil, fmt.Errorf("could not find a name column in sheet %q", sheet)
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := Row{}
		for col, value := range line {
			field, ok := fieldByColumn[col]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch field {
			case "name":
				row.Name = value
			case "brand":
				row.Brand = value
			case "price":
				row.Price = value
			case "full_ingredient_list":
				row.FullIngredientList = value
			case "description":
				row.Description = value
			case "age_group":
				row.AgeGroup = value
			case "food_type":
				row.FoodType = value
			case "image_url":
				row.ImageURL = value
			case "shopping_url":
				row.ShoppingURL = value
			}
		}
		if row.Name != "" {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
