package model

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/diet-insights/backend/internal/analytics"
)

// Recipe is a stored dataset row. Position keeps the order of the imported
// file so database snapshots match file snapshots.
type Recipe struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Position    int             `gorm:"not null;index" json:"position"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	DietType    string          `gorm:"size:100;not null;index" json:"diet_type"`
	CuisineType string          `gorm:"size:100" json:"cuisine_type"`
	Protein     float64         `gorm:"type:float" json:"protein"`
	Carbs       float64         `gorm:"type:float" json:"carbs"`
	Fat         float64         `gorm:"type:float" json:"fat"`
	Macros      pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

// BeforeCreate assigns an id and keeps the macro vector in step with the columns.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.Macros = MacroVector(r.Protein, r.Carbs, r.Fat)
	return nil
}

// MacroVector packs grams into the vector column layout.
func MacroVector(protein, carbs, fat float64) pgvector.Vector {
	return pgvector.NewVector([]float32{float32(protein), float32(carbs), float32(fat)})
}

// NewRecipe converts a dataset record at the given position.
func NewRecipe(position int, r analytics.Recipe) Recipe {
	return Recipe{
		Position:    position,
		Name:        r.Name,
		DietType:    r.DietType,
		CuisineType: r.CuisineType,
		Protein:     r.Protein,
		Carbs:       r.Carbs,
		Fat:         r.Fat,
		Macros:      MacroVector(r.Protein, r.Carbs, r.Fat),
	}
}

// Analytics converts the row back to a dataset record.
func (r Recipe) Analytics() analytics.Recipe {
	return analytics.Recipe{
		Name:        r.Name,
		DietType:    r.DietType,
		CuisineType: r.CuisineType,
		Protein:     r.Protein,
		Carbs:       r.Carbs,
		Fat:         r.Fat,
	}
}
