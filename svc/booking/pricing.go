package booking

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultTaxRate is 16% in basis points.
const DefaultTaxRate = 1600

const basisPoints = 10000

// Service is the bookable offer the wizard was opened for.
// Prices are in minor currency units.
type Service struct {
	ID        string
	VenueID   string
	Name      string
	BasePrice int64
	PerPerson bool
	MinGuests int
	MaxGuests int
	Currency  string
}

func (s Service) validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return ErrInvalidService
	case s.BasePrice < 0:
		return ErrInvalidService
	case s.MaxGuests > 0 && s.MaxGuests < s.MinGuests:
		return ErrInvalidService
	}
	if _, err := currency.ParseISO(s.Currency); err != nil {
		return ErrUnsupportedCurrency
	}
	return nil
}

// Breakdown is the price of a draft. All amounts are minor units.
type Breakdown struct {
	UnitPrice int64
	Quantity  int
	Subtotal  int64
	TaxRate   int
	Tax       int64
	Total     int64
	Currency  string
}

// Quote prices guests for service. Per-person services multiply the base
// price by the guest count, others charge it once. Tax is rounded half up.
func Quote(service Service, guests int, taxRate int) Breakdown {
	qty := 1
	if service.PerPerson {
		qty = max(guests, 0)
	}

	subtotal := service.BasePrice * int64(qty)
	tax := (subtotal*int64(taxRate) + basisPoints/2) / basisPoints

	return Breakdown{
		UnitPrice: service.BasePrice,
		Quantity:  qty,
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		Tax:       tax,
		Total:     subtotal + tax,
		Currency:  service.Currency,
	}
}

// FormattedBreakdown holds display strings for a Breakdown.
type FormattedBreakdown struct {
	UnitPrice string
	Subtotal  string
	Tax       string
	Total     string
}

// Format renders the amounts for tag with the currency symbol of that locale.
func (b Breakdown) Format(tag language.Tag) (FormattedBreakdown, error) {
	unit, err := currency.ParseISO(b.Currency)
	if err != nil {
		return FormattedBreakdown{}, ErrUnsupportedCurrency
	}
	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)
	symbol := p.Sprint(currency.Symbol(unit))

	amount := func(minor int64) string {
		major := float64(minor) / math.Pow10(scale)
		return symbol + " " + p.Sprint(number.Decimal(major, number.Scale(scale)))
	}

	return FormattedBreakdown{
		UnitPrice: amount(b.UnitPrice),
		Subtotal:  amount(b.Subtotal),
		Tax:       amount(b.Tax),
		Total:     amount(b.Total),
	}, nil
}
