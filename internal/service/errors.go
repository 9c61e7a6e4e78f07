package service

import "errors"

// Common service errors
var (
	// ErrUnauthorized is returned when the caller is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller does not own the resource
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a state-transition precondition fails
	ErrConflict = errors.New("resource conflict")

	// ErrItineraryNotFound is returned when an itinerary is not found
	ErrItineraryNotFound = errors.New("itinerary not found")

	// ErrItineraryLocked is returned when mutating a locked itinerary.
	// Callers distinguish this from validation errors: the itinerary
	// exists but is frozen.
	ErrItineraryLocked = errors.New("itinerary is locked")

	// ErrAlreadyLocked is returned when locking an already locked itinerary
	ErrAlreadyLocked = errors.New("itinerary is already locked")

	// ErrNotLocked is returned when unlocking an itinerary that is not locked
	ErrNotLocked = errors.New("itinerary is not locked")

	// ErrAlreadyConfirmed is returned when confirming a confirmed itinerary
	ErrAlreadyConfirmed = errors.New("itinerary is already confirmed")

	// ErrDayNotFound is returned when a day plan is not found under the
	// stated itinerary
	ErrDayNotFound = errors.New("itinerary day not found")

	// ErrDuplicateDayNumber is returned when a day number already exists
	// within the itinerary
	ErrDuplicateDayNumber = errors.New("day number already exists for itinerary")

	// ErrItemNotFound is returned when a line item is not found under the
	// stated itinerary
	ErrItemNotFound = errors.New("itinerary item not found")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrLeadNotOpen is returned when purchasing a lead that is no longer open
	ErrLeadNotOpen = errors.New("lead is not open for purchase")

	// ErrLeadNotPurchased is returned when building an itinerary for a lead
	// the agent has not purchased
	ErrLeadNotPurchased = errors.New("lead not purchased by agent")

	// ErrFileNotFound is returned when a stored file is not found
	ErrFileNotFound = errors.New("file not found")
)
