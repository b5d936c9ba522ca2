package qrcode

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent   = errors.New("qr code content is empty")
	ErrGenerateFailed = errors.New("failed to generate qr code")
)

const (
	DefaultSize = 256

	checkInScheme = "reservekit"
	checkInHost   = "checkin"
)

// Option tweaks code generation.
type Option func(*skipqrcode.QRCode)

// WithRecoveryLevel sets the error correction level. Medium by default.
func WithRecoveryLevel(level skipqrcode.RecoveryLevel) Option {
	return func(q *skipqrcode.QRCode) {
		q.Level = level
	}
}

// WithoutBorder drops the quiet zone around the code.
func WithoutBorder() Option {
	return func(q *skipqrcode.QRCode) {
		q.DisableBorder = true
	}
}

// Generate encodes content as a square PNG of size pixels.
// A non-positive size falls back to DefaultSize.
func Generate(content string, size int, opts ...Option) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return nil, errors.Join(ErrGenerateFailed, err)
	}
	for _, opt := range opts {
		opt(q)
	}

	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrGenerateFailed, err)
	}
	return png, nil
}

// DataURI is Generate rendered as data:image/png;base64,...
func DataURI(content string, size int, opts ...Option) (string, error) {
	png, err := Generate(content, size, opts...)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// CheckIn identifies a confirmed reservation at the venue door.
type CheckIn struct {
	ReservationID string
	VenueID       string
	Date          string
	Time          string
}

// Content returns the URI encoded into the check-in code, e.g.
// reservekit://checkin/r_42?date=2025-06-01&time=19%3A30&venue=v_1.
func (c CheckIn) Content() string {
	if c.ReservationID == "" {
		return ""
	}

	q := url.Values{}
	if c.VenueID != "" {
		q.Set("venue", c.VenueID)
	}
	if c.Date != "" {
		q.Set("date", c.Date)
	}
	if c.Time != "" {
		q.Set("time", c.Time)
	}

	u := url.URL{
		Scheme:   checkInScheme,
		Host:     checkInHost,
		Path:     "/" + c.ReservationID,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ParseCheckIn reverses Content.
func ParseCheckIn(content string) (CheckIn, error) {
	u, err := url.Parse(content)
	if err != nil {
		return CheckIn{}, err
	}
	id := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != checkInScheme || u.Host != checkInHost || id == "" {
		return CheckIn{}, ErrNotCheckIn
	}

	q := u.Query()
	return CheckIn{
		ReservationID: id,
		VenueID:       q.Get("venue"),
		Date:          q.Get("date"),
		Time:          q.Get("time"),
	}, nil
}

var ErrNotCheckIn = errors.New("content is not a check-in code")
