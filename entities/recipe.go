package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	ScanID       *uuid.UUID `json:"scan_id,omitempty"`
	Title        string     `json:"title"`
	CookingTime  int        `json:"cooking_time"` // minutes
	Difficulty   string     `json:"difficulty"`   // "EASY", "MEDIUM", "HARD"
	Instructions string     `gorm:"type:text" json:"instructions"` // serialized ordered steps
	Calories     int        `json:"calories"`
	Protein      int        `json:"protein"`
	Carbs        int        `json:"carbs"`
	Fat          int        `json:"fat"`
	ImageURL     string     `json:"image_url,omitempty"`
	ImageStatus  string     `json:"image_status,omitempty"` // "Pending", "Completed", "Failed"

	User        *User               `gorm:"foreignKey:UserID"`
	Scan        *Scan               `gorm:"foreignKey:ScanID"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type RecipeIngredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `json:"recipe_id"`
	Item     string    `json:"item"`
	Amount   string    `json:"amount"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_favorites_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"uniqueIndex:idx_favorites_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}
