package analytics

import "strings"

// Field names a recipe attribute.
type Field string

const (
	FieldName        Field = "name"
	FieldDietType    Field = "diet_type"
	FieldCuisineType Field = "cuisine_type"
	FieldProtein     Field = "protein"
	FieldCarbs       Field = "carbs"
	FieldFat         Field = "fat"
)

// NutrientFields are the numeric fields, in display order.
var NutrientFields = []Field{FieldProtein, FieldCarbs, FieldFat}

var fieldAliases = map[string]Field{
	"name":         FieldName,
	"recipe_name":  FieldName,
	"diet_type":    FieldDietType,
	"diet":         FieldDietType,
	"cuisine_type": FieldCuisineType,
	"cuisine":      FieldCuisineType,
	"protein":      FieldProtein,
	"protein(g)":   FieldProtein,
	"carbs":        FieldCarbs,
	"carbs(g)":     FieldCarbs,
	"fat":          FieldFat,
	"fat(g)":       FieldFat,
}

// ParseField resolves a field name in any case, including the dataset column
// names such as "Protein(g)" and "Diet_type".
func ParseField(name string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &InvalidFieldError{Field: name, Reason: "unknown field"}
	}
	return f, nil
}

// ParseNutrientField resolves a field name and requires it to be numeric.
func ParseNutrientField(name string) (Field, error) {
	f, err := ParseField(name)
	if err != nil {
		return "", err
	}
	if !f.IsNumeric() {
		return "", &InvalidFieldError{Field: name, Reason: "must be one of Protein, Carbs, Fat"}
	}
	return f, nil
}

// IsNumeric reports whether the field holds grams.
func (f Field) IsNumeric() bool {
	return f == FieldProtein || f == FieldCarbs || f == FieldFat
}

// IsCategorical reports whether the field holds a text value.
func (f Field) IsCategorical() bool {
	return f == FieldName || f == FieldDietType || f == FieldCuisineType
}

// Label is the display name used in chart labels.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Recipe_name"
	case FieldDietType:
		return "Diet_type"
	case FieldCuisineType:
		return "Cuisine_type"
	case FieldProtein:
		return "Protein"
	case FieldCarbs:
		return "Carbs"
	case FieldFat:
		return "Fat"
	}
	return string(f)
}

// Column is the dataset header of the field.
func (f Field) Column() string {
	if f.IsNumeric() {
		return f.Label() + "(g)"
	}
	return f.Label()
}

// Value returns a numeric field of the recipe.
func (r Recipe) Value(f Field) float64 {
	switch f {
	case FieldProtein:
		return r.Protein
	case FieldCarbs:
		return r.Carbs
	case FieldFat:
		return r.Fat
	}
	return 0
}

// Category returns a categorical field of the recipe.
func (r Recipe) Category(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldDietType:
		return r.DietType
	case FieldCuisineType:
		return r.CuisineType
	}
	return ""
}

// Macros returns the recipe as a point in nutrient space.
func (r Recipe) Macros() Centroid {
	return Centroid{Protein: r.Protein, Carbs: r.Carbs, Fat: r.Fat}
}

func requireNumeric(f Field) error {
	if !f.IsNumeric() {
		return &InvalidFieldError{Field: string(f), Reason: "not a numeric field"}
	}
	return nil
}

func requireCategorical(f Field) error {
	if !f.IsCategorical() {
		return &InvalidFieldError{Field: string(f), Reason: "not a categorical field"}
	}
	return nil
}

func values(records []Recipe, f Field) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value(f)
	}
	return out
}
