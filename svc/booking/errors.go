package booking

import "errors"

var (
	ErrInvalidConfig        = errors.New("invalid booking config")
	ErrInvalidService       = errors.New("invalid bookable service")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrSubmissionInProgress = errors.New("reservation submission already in progress")
	ErrNotReadyToSubmit     = errors.New("reservation can only be submitted from the payment step")
	ErrBookingConfirmed     = errors.New("booking is already confirmed")
	ErrUnknownContactField  = errors.New("unknown contact field")
)

// Step gate reasons, reachable with errors.Is through wizard.GateError.
var (
	ErrSlotNotSelected   = errors.New("date and time not selected")
	ErrSlotInvalid       = errors.New("date or time is invalid")
	ErrSlotInPast        = errors.New("selected time is in the past")
	ErrSlotBeyondHorizon = errors.New("selected time is beyond the booking horizon")
	ErrGuestCount        = errors.New("guest count out of range")
	ErrDetailsInvalid    = errors.New("contact details are invalid")
	ErrPaymentMethod     = errors.New("payment method not selected")
)

// gateFailure carries the message shown to the user and the reason for callers.
type gateFailure struct {
	reason  error
	message string
}

func (e *gateFailure) Error() string { return e.message }

func (e *gateFailure) Unwrap() error { return e.reason }
