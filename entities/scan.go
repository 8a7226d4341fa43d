package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScanRecord is append-only: rows are created once and never updated or
// deleted by the application. Recording a preference appends a new row.
type ScanRecord struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID                   `json:"user_id"`
	ProductImageURL string                      `json:"product_image_url"`
	Category        string                      `json:"category"`
	EcoScore        string                      `json:"eco_score"` // "A+".."F" or "N/A", case-insensitive at rest
	Packaging       datatypes.JSONSlice[string] `json:"packaging"`
	HasAlternative  bool                        `json:"has_alternative"`
	AltBrand        string                      `json:"alt_brand,omitempty"`
	AltEcoScore     string                      `json:"alt_eco_score,omitempty"`
	AltPackaging    string                      `json:"alt_packaging,omitempty"`
	AltImageURL     string                      `json:"alt_image_url,omitempty"`
	Preferred       *string                     `json:"preferred,omitempty"` // "product" or "alternative"

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
