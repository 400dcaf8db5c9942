package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupBooking struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);index;not null" json:"tenant_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	MaxSize     int    `gorm:"not null" json:"max_size"`

	Bookings []Appointment `gorm:"-" json:"bookings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *GroupBooking) BeforeCreate(*gorm.DB) error {
	g.ID = newID(g.ID)
	return nil
}
