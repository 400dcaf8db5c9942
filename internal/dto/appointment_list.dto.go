package dto

import "time"

type AppointmentListDTO struct {
	ID                 string    `json:"id"`
	StaffID            string    `json:"staff_id"`
	StartAt            time.Time `json:"start_at"`
	EndAt              time.Time `json:"end_at"`
	Status             string    `json:"status"`
	CustomerEmail      string    `json:"customer_email"`
	ServiceName        string    `json:"service_name"`
	RecurringBookingID *string   `json:"recurring_booking_id,omitempty"`
	GroupBookingID     *string   `json:"group_booking_id,omitempty"`
}
