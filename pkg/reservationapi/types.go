package reservationapi

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Contact is the guest the venue talks to.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// CreateReservationRequest is the payload of POST /reservations.
// Amounts are in minor currency units.
type CreateReservationRequest struct {
	ServiceID     string  `json:"service_id"`
	VenueID       string  `json:"venue_id"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Guests        int     `json:"guests"`
	Contact       Contact `json:"contact"`
	PaymentMethod string  `json:"payment_method"`
	Subtotal      int64   `json:"subtotal"`
	Tax           int64   `json:"tax"`
	Total         int64   `json:"total"`
	Currency      string  `json:"currency"`

	// IdempotencyKey is sent as the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

type Reservation struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	ServiceID     string            `json:"service_id"`
	VenueID       string            `json:"venue_id"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Guests        int               `json:"guests"`
	Contact       Contact           `json:"contact"`
	PaymentMethod string            `json:"payment_method"`
	Total         int64             `json:"total"`
	Currency      string            `json:"currency"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard is the per-user summary shown on the home screen.
type Dashboard struct {
	Upcoming            int          `json:"upcoming"`
	Completed           int          `json:"completed"`
	UnreadNotifications int          `json:"unread_notifications"`
	TotalSpent          int64        `json:"total_spent"`
	Currency            string       `json:"currency,omitempty"`
	Next                *Reservation `json:"next,omitempty"`
}

type Payment struct {
	ID            string        `json:"id"`
	ReservationID string        `json:"reservation_id"`
	Method        string        `json:"method"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type Receipt struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	PaymentID     string    `json:"payment_id"`
	ReservationID string    `json:"reservation_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	IssuedAt      time.Time `json:"issued_at"`
}

// ListResponse wraps collection endpoints.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
