package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed    = "Method not allowed"
	ErrServerError         = "Internal server error"
	ErrInvalidData         = "Invalid request body"
	ErrNotAuthenticated    = "Unauthorized"
	ErrAdminRequired       = "Admin access required"
	ErrInvalidToken        = "Invalid or expired token"
	ErrInvalidID           = "Invalid id"
	ErrRegistrationMissing = "Registration not found"
	ErrTicketNotFound      = "Ticket not found"
	ErrVolunteerNotFound   = "Volunteer not found"
	ErrCourseNotFound      = "Course not found"
	ErrContactNotFound     = "Contact message not found"
	ErrEmailTaken          = "Email already registered"
	ErrUnknownAction       = "Unknown action"
	ErrNothingToUpdate     = "No updatable fields provided"
	ErrAlreadyCheckedIn    = "Attendee already checked in"
	ErrInvalidCredentials  = "Invalid credentials"
	ErrTooManyAlerts       = "Too many alerts sent, please wait"
	ErrSlugExhausted       = "Could not derive a unique slug"
	ErrUnknownFormat       = "Unknown export format"
	ErrTermsNotAccepted    = "You must agree to the terms"
)

// Actions acceptées par PUT /api/attendees/{id} et /api/volunteers/{id}
const (
	ActionToggleAttendance = "toggle_attendance"
	ActionConfirmPayment   = "confirm_payment"
	ActionDelete           = "delete"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
	HeaderRequestID       = "X-Request-ID"
)

// QRCodePrefix préfixe les codes d'e-pass
const QRCodePrefix = "INFLUENCIA2025-"
