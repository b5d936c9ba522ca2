package booking

import (
	"fmt"
	"time"
)

type Config struct {
	// TaxRate in basis points, 1600 = 16%.
	TaxRate        int      `env:"BOOKING_TAX_RATE_BP" envDefault:"1600"`
	// HorizonMonths bounds how far ahead a slot may be booked. A slot
	// exactly HorizonMonths after now is accepted; anything later is not.
	HorizonMonths  int      `env:"BOOKING_HORIZON_MONTHS" envDefault:"6"`
	Timezone       string   `env:"BOOKING_TIMEZONE" envDefault:"UTC"`
	PaymentMethods []string `env:"BOOKING_PAYMENT_METHODS" envDefault:"card,cash,transfer" envSeparator:","`
	Language       string   `env:"BOOKING_LANGUAGE" envDefault:"en"`
	QRSize         int      `env:"BOOKING_QR_SIZE" envDefault:"256"`
}

func DefaultConfig() Config {
	return Config{
		TaxRate:        DefaultTaxRate,
		HorizonMonths:  6,
		Timezone:       "UTC",
		PaymentMethods: []string{"card", "cash", "transfer"},
		Language:       "en",
		QRSize:         256,
	}
}

// normalize fills zero values from DefaultConfig and resolves the timezone.
func (c Config) normalize() (Config, *time.Location, error) {
	def := DefaultConfig()
	if c.TaxRate < 0 {
		return c, nil, fmt.Errorf("%w: negative tax rate", ErrInvalidConfig)
	}
	if c.HorizonMonths <= 0 {
		c.HorizonMonths = def.HorizonMonths
	}
	if len(c.PaymentMethods) == 0 {
		c.PaymentMethods = def.PaymentMethods
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.QRSize <= 0 {
		c.QRSize = def.QRSize
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return c, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, loc, nil
}
