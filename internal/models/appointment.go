package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment is a concrete booking on a staff calendar. RecurringBookingID
// and GroupBookingID are plain references without foreign keys so that
// history survives deletion of the rule or group that produced it.
type Appointment struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID string `gorm:"type:varchar(36);not null;index:idx_appointments_staff_window,priority:1" json:"tenant_id"`

	ServiceID     string `gorm:"type:varchar(36);not null" json:"service_id"`
	StaffID       string `gorm:"type:varchar(36);not null;index:idx_appointments_staff_window,priority:2" json:"staff_id"`
	CustomerEmail string `gorm:"size:100;not null" json:"customer_email"`

	StartAt time.Time `gorm:"not null;index:idx_appointments_staff_window,priority:3" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;not null;default:'CONFIRMED';index" json:"status"`

	RecurringBookingID *string `gorm:"type:varchar(36);index" json:"recurring_booking_id"`
	GroupBookingID     *string `gorm:"type:varchar(36);index" json:"group_booking_id"`

	CreatedBy   string     `gorm:"size:100" json:"created_by"`
	CancelledBy string     `gorm:"size:100" json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}
