package booking

import (
	"strings"
	"time"

	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
	"github.com/dmitrymomot/reservekit/pkg/sanitizer"
)

// Wizard steps in order.
const (
	StepDateTime     = "datetime"
	StepGuests       = "guests"
	StepDetails      = "details"
	StepPayment      = "payment"
	StepConfirmation = "confirmation"
)

// Contact form fields.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
	FieldNotes = "notes"
)

var contactSanitizers = map[string]func(string) string{
	FieldName:  sanitizer.PersonName,
	FieldEmail: sanitizer.Email,
	FieldPhone: sanitizer.Phone,
	FieldNotes: sanitizer.Multiline,
}

const (
	dateLayout = time.DateOnly
	timeLayout = "15:04"
)

// Draft is the booking being assembled across the wizard steps.
type Draft struct {
	Service       Service
	Date          string
	Time          string
	Guests        int
	Contact       reservationapi.Contact
	PaymentMethod string
}

// Slot resolves Date and Time in loc.
func (d Draft) Slot(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, strings.TrimSpace(d.Date)+" "+strings.TrimSpace(d.Time), loc)
}

// Quote prices the draft.
func (d Draft) Quote(taxRate int) Breakdown {
	return Quote(d.Service, d.Guests, taxRate)
}

func (d Draft) request(b Breakdown, key string) reservationapi.CreateReservationRequest {
	return reservationapi.CreateReservationRequest{
		ServiceID:      d.Service.ID,
		VenueID:        d.Service.VenueID,
		Date:           d.Date,
		Time:           d.Time,
		Guests:         d.Guests,
		Contact:        d.Contact,
		PaymentMethod:  d.PaymentMethod,
		Subtotal:       b.Subtotal,
		Tax:            b.Tax,
		Total:          b.Total,
		Currency:       b.Currency,
		IdempotencyKey: key,
	}
}

func contactFrom(values map[string]any) reservationapi.Contact {
	text := func(field string) string {
		s, _ := values[field].(string)
		return strings.TrimSpace(s)
	}
	return reservationapi.Contact{
		Name:  text(FieldName),
		Email: text(FieldEmail),
		Phone: text(FieldPhone),
		Notes: text(FieldNotes),
	}
}
