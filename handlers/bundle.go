package handlers

// HandlerBundle groups the handler sets passed into route registration.
type HandlerBundle struct {
	User        *UserHandler
	Appointment *AppointmentHandler
	Calendar    *CalendarHandler
}
