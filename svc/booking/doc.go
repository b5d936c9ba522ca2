// Package booking implements the reservation wizard: date and time, guests,
// contact details, payment method and confirmation.
//
// Each step has a gate that must pass before the user moves on. Gate
// failures surface as one step level message, available through
// wizard.GateMessage, and wrap a reason such as ErrSlotInPast for callers.
// Contact details are a form.Engine, so field errors follow the usual form
// rules. Values are normalized with the sanitizer package before they are
// stored. Prices are derived from the draft on every call with Quote.
//
// Submitting from the payment step creates the reservation exactly once per
// call and rejects overlapping calls with ErrSubmissionInProgress. A
// successful submission moves to the locked confirmation step, renders a
// check-in QR code and, when a Refresher is configured, refreshes the user
// data in the background.
//
//	w, err := booking.New(cfg, service, apiClient,
//	    booking.WithRefresher(coordinator, refresh.DefaultOptions()),
//	)
//	_ = w.SelectDate("2025-06-01")
//	_ = w.SelectTime("19:30")
//	if err := w.Next(ctx); err != nil {
//	    msg := wizard.GateMessage(err)
//	}
package booking
