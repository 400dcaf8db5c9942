package models

// All lists every table owned by the service, in dependency order.
func All() []any {
	return []any{
		&Tenant{},
		&User{},
		&Service{},
		&Staff{},
		&Appointment{},
		&RecurringBooking{},
		&WaitingListEntry{},
		&GroupBooking{},
		&PortfolioItem{},
		&AuditLog{},
	}
}
