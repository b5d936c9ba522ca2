// Package qrcode renders the check-in code shown on a booking confirmation.
//
// CheckIn describes what the venue scans; its Content is a reservekit://
// URI. Generate turns any content into PNG bytes and DataURI into a
// base64 data URI ready for an <img> tag:
//
//	code := qrcode.CheckIn{ReservationID: r.ID, VenueID: r.VenueID, Date: r.Date, Time: r.Time}
//	uri, err := qrcode.DataURI(code.Content(), 0)
package qrcode
