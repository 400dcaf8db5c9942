package models

import (
	"time"

	"gorm.io/gorm"
)

type PortfolioItem struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);not null;index:idx_portfolio_staff,priority:1" json:"tenant_id"`
	StaffID  string `gorm:"type:varchar(36);not null;index:idx_portfolio_staff,priority:2" json:"staff_id"`

	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`
	Category    string `gorm:"size:50" json:"category"`
	Featured    bool   `gorm:"not null;default:false" json:"featured"`

	ImageURL string `gorm:"size:255;not null" json:"image_url"`
	ImageKey string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PortfolioItem) BeforeCreate(*gorm.DB) error {
	p.ID = newID(p.ID)
	return nil
}
