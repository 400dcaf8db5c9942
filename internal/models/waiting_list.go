package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WaitingListEntry struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_waiting_list_customer,priority:1" json:"tenant_id"`

	ServiceID string   `gorm:"type:varchar(36);not null;uniqueIndex:ux_waiting_list_customer,priority:2" json:"service_id"`
	Service   *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service,omitempty"`

	StaffID       *string         `gorm:"type:varchar(36)" json:"staff_id,omitempty"`
	CustomerEmail string          `gorm:"size:100;not null;uniqueIndex:ux_waiting_list_customer,priority:3" json:"customer_email"`
	PreferredDate *datatypes.Date `json:"preferred_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (WaitingListEntry) TableName() string { return "waiting_list" }

func (w *WaitingListEntry) BeforeCreate(*gorm.DB) error {
	w.ID = newID(w.ID)
	return nil
}
