package models

import (
	"time"

	"gorm.io/gorm"
)

type Staff struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);index;not null" json:"tenant_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100" json:"email"`
	ImageURL string `gorm:"size:255" json:"image_url"`
	ImageKey string `gorm:"size:255" json:"-"`
	Active   bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) BeforeCreate(*gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}
