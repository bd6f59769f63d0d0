package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Nutrition is the per-dish nutrition breakup stored as JSONB. Calories is
// numeric; protein/carbs/fats are free-form strings that usually carry a
// unit suffix, e.g. "30g".
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fats     string `json:"fats"`
}

// Value implements the driver.Valuer interface
func (n Nutrition) Value() (driver.Value, error) {
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *Nutrition) Scan(value interface{}) error {
	if value == nil {
		*n = Nutrition{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// Dish is a stored recipe together with its required ingredients.
type Dish struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Name         string           `gorm:"size:255;not null;index" json:"name"`
	Description  string           `gorm:"type:text" json:"description"`
	Cuisine      string           `gorm:"size:50" json:"cuisine"`
	MealTypes    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"meal_types"`
	PrepSteps    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"prep_steps"`
	Nutrition    Nutrition        `gorm:"type:jsonb" json:"nutrition"`
	ThumbnailURL string           `gorm:"size:255" json:"thumbnail_url"`
	Embedding    pgvector.Vector  `gorm:"type:vector(3)" json:"-"`

	// SuggestedPairings keeps the raw names from extraction; PairedWith
	// holds the subset that resolved to stored dishes.
	SuggestedPairings JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"suggested_pairings"`
	PairedWith        []Dish           `gorm:"many2many:dish_pairings;joinForeignKey:DishID;joinReferences:PairedDishID" json:"paired_with,omitempty"`

	Ingredients []DishIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// BeforeCreate assigns the primary key when the database has no uuid
// default, e.g. SQLite.
func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DishIngredient links a dish to one ingredient with the quantity and unit
// that dish requires. Owned by its dish and removed with it.
type DishIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DishID       uuid.UUID `gorm:"type:uuid;not null;index" json:"dish_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null" json:"ingredient_id"`
	Quantity     float64   `gorm:"type:float;not null" json:"quantity"`
	Unit         string    `gorm:"size:50;not null" json:"unit"`

	Ingredient Ingredient `json:"ingredient"`
}

func (di *DishIngredient) BeforeCreate(tx *gorm.DB) error {
	if di.ID == uuid.Nil {
		di.ID = uuid.New()
	}
	return nil
}
