package handlers

const (
	DeviceCookieName   = "device_id"
	deviceCookieMaxAge = 365 * 24 * 60 * 60

	maxRequestBody = 64 << 10

	ErrInvalidRequest      = "Invalid request body"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests"
	ErrWordNotFound        = "Word not found"
	ErrPeriodNotFound      = "Practice period not found"
	ErrCatalogUnavailable  = "Could not load the words"
	ErrNoWords             = "No words found"
	ErrConflict            = "Action not allowed right now"
)
