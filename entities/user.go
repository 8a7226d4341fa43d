package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Username string    `json:"username"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
	Role     string    `json:"role"`
	IsGuest  bool      `json:"is_guest"`
	Note     string    `json:"note,omitempty" gorm:"type:text"`

	ScanRecords []*ScanRecord `gorm:"foreignKey:UserID"`
	Timestamp
}
