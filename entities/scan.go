package entities

import (
	"github.com/google/uuid"
)

type Scan struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Ingredients string    `gorm:"type:text" json:"ingredients"` // serialized inventory, six category keys

	User    *User        `gorm:"foreignKey:UserID"`
	Images  []*ScanImage `gorm:"foreignKey:ScanID"`
	Recipes []*Recipe    `gorm:"foreignKey:ScanID"`
	Timestamp
}

type ScanImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ScanID      uuid.UUID `json:"scan_id"`
	ContentType string    `json:"content_type"`
	ImageURL    string    `json:"image_url"`

	Scan *Scan `gorm:"foreignKey:ScanID"`
	Timestamp
}
