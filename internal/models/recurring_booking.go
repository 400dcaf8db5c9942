package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecurringBooking is the persisted recurrence rule. StartDate and EndDate
// are civil dates stored as UTC midnight.
type RecurringBooking struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);index;not null" json:"tenant_id"`

	ServiceID string   `gorm:"type:varchar(36);not null" json:"service_id"`
	Service   *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	StaffID       string `gorm:"type:varchar(36);not null;index" json:"staff_id"`
	CustomerEmail string `gorm:"size:100;not null" json:"customer_email"`

	Frequency string `gorm:"size:20;not null" json:"frequency"`
	DayOfWeek *int   `json:"day_of_week,omitempty"`
	TimeSlot  string `gorm:"size:5;not null" json:"time_slot"`

	StartDate datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate   *datatypes.Date `json:"end_date,omitempty"`

	Active bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RecurringBooking) BeforeCreate(*gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}
