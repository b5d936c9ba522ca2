// Package apitest is an in-memory reservation backend serving the routes of
// package reservationapi. Tests and the sandbox binary run it behind
// httptest or pkg/httpserver.
package apitest

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
)

// Route names accepted by Fail and Calls.
const (
	RouteCreateReservation = "create_reservation"
	RouteReservations      = "reservations"
	RouteNotifications     = "notifications"
	RouteDashboard         = "dashboard"
	RoutePayments          = "payments"
	RouteReceipts          = "receipts"
)

type failure struct {
	status  int
	message string
}

type account struct {
	reservations  []reservationapi.Reservation
	notifications []reservationapi.Notification
	payments      []reservationapi.Payment
	receipts      []reservationapi.Receipt
}

// Backend keeps every user's data in memory. The bearer token is the user ID.
type Backend struct {
	mu         sync.Mutex
	now        func() time.Time
	seq        int
	accounts   map[string]*account
	idempotent map[string]reservationapi.Reservation
	failures   map[string]failure
	calls      map[string]int
}

type Option func(*Backend)

// WithClock fixes the time used for created_at fields.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		now:        time.Now,
		accounts:   make(map[string]*account),
		idempotent: make(map[string]reservationapi.Reservation),
		failures:   make(map[string]failure),
		calls:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewTestClient starts b behind an httptest server and returns a client
// authenticated as user.
func NewTestClient(tb testing.TB, b *Backend, user string) *reservationapi.Client {
	tb.Helper()

	srv := httptest.NewServer(b.Handler())
	tb.Cleanup(srv.Close)

	client, err := reservationapi.NewClient(
		reservationapi.Config{BaseURL: srv.URL, Token: user, Timeout: 5 * time.Second},
		reservationapi.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		tb.Fatalf("apitest: %v", err)
	}
	return client
}

// Fail makes route answer status with message until Heal is called.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

func (b *Backend) Heal(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

// Calls returns how many requests reached route.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Reservations returns a copy of user's reservations.
func (b *Backend) Reservations(user string) []reservationapi.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.account(user).reservations)
}

// Handler returns the chi router serving the API.
func (b *Backend) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(authenticate)

	router.Post("/reservations", b.route(RouteCreateReservation, b.createReservation))
	router.Get("/reservations", b.route(RouteReservations, func(w http.ResponseWriter, _ *http.Request, acc *account) {
		writeList(w, acc.reservations)
	}))
	router.Get("/notifications", b.route(RouteNotifications, func(w http.ResponseWriter, _ *http.Request, acc *account) {
		writeList(w, acc.notifications)
	}))
	router.Get("/dashboard", b.route(RouteDashboard, func(w http.ResponseWriter, _ *http.Request, acc *account) {
		writeJSON(w, http.StatusOK, dashboard(acc))
	}))
	router.Get("/payments", b.route(RoutePayments, func(w http.ResponseWriter, _ *http.Request, acc *account) {
		writeList(w, acc.payments)
	}))
	router.Get("/receipts", b.route(RouteReceipts, func(w http.ResponseWriter, _ *http.Request, acc *account) {
		writeList(w, acc.receipts)
	}))

	return router
}

type userKey struct{}

func authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, token)))
	})
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, acc *account)

// route counts the call, applies injected failures and runs h under the lock.
func (b *Backend) route(name string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.calls[name]++
		if f, ok := b.failures[name]; ok {
			writeError(w, f.status, "injected", f.message)
			return
		}

		user, _ := r.Context().Value(userKey{}).(string)
		h(w, r, b.account(user))
	}
}

func (b *Backend) account(user string) *account {
	acc, ok := b.accounts[user]
	if !ok {
		acc = &account{}
		b.accounts[user] = acc
	}
	return acc
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s_%d", prefix, b.seq)
}

func (b *Backend) createReservation(w http.ResponseWriter, r *http.Request, acc *account) {
	user, _ := r.Context().Value(userKey{}).(string)

	key := r.Header.Get(reservationapi.HeaderIdempotencyKey)
	if key != "" {
		if res, ok := b.idempotent[user+"|"+key]; ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	var req reservationapi.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
		return
	}
	if msg := validateCreate(req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", msg)
		return
	}

	now := b.now().UTC()
	res := reservationapi.Reservation{
		ID:            b.nextID("r"),
		UserID:        user,
		ServiceID:     req.ServiceID,
		VenueID:       req.VenueID,
		Date:          req.Date,
		Time:          req.Time,
		Guests:        req.Guests,
		Contact:       req.Contact,
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
		Currency:      req.Currency,
		Status:        reservationapi.StatusConfirmed,
		CreatedAt:     now,
	}
	payment := reservationapi.Payment{
		ID:            b.nextID("p"),
		ReservationID: res.ID,
		Method:        req.PaymentMethod,
		Amount:        req.Total,
		Currency:      req.Currency,
		Status:        reservationapi.PaymentPaid,
		CreatedAt:     now,
	}
	receipt := reservationapi.Receipt{
		ID:            b.nextID("rc"),
		Number:        fmt.Sprintf("RK-%s-%04d", now.Format("20060102"), b.seq),
		PaymentID:     payment.ID,
		ReservationID: res.ID,
		Amount:        req.Total,
		Currency:      req.Currency,
		IssuedAt:      now,
	}
	notification := reservationapi.Notification{
		ID:        b.nextID("n"),
		Title:     "Reservation confirmed",
		Body:      fmt.Sprintf("See you on %s at %s.", req.Date, req.Time),
		CreatedAt: now,
	}

	acc.reservations = append(acc.reservations, res)
	acc.payments = append(acc.payments, payment)
	acc.receipts = append(acc.receipts, receipt)
	acc.notifications = append(acc.notifications, notification)
	if key != "" {
		b.idempotent[user+"|"+key] = res
	}

	writeJSON(w, http.StatusCreated, res)
}

func validateCreate(req reservationapi.CreateReservationRequest) string {
	switch {
	case req.ServiceID == "":
		return "service is required"
	case req.Date == "" || req.Time == "":
		return "date and time are required"
	case req.Guests < 1:
		return "guest count must be at least 1"
	case req.Contact.Name == "" || req.Contact.Email == "":
		return "contact name and email are required"
	case req.PaymentMethod == "":
		return "payment method is required"
	case req.Total < 0:
		return "total must not be negative"
	}
	return ""
}

func dashboard(acc *account) reservationapi.Dashboard {
	var d reservationapi.Dashboard
	var upcoming []reservationapi.Reservation

	for _, res := range acc.reservations {
		switch res.Status {
		case reservationapi.StatusPending, reservationapi.StatusConfirmed:
			d.Upcoming++
			upcoming = append(upcoming, res)
		case reservationapi.StatusCompleted:
			d.Completed++
		}
	}
	for _, n := range acc.notifications {
		if !n.Read {
			d.UnreadNotifications++
		}
	}
	for _, p := range acc.payments {
		if p.Status == reservationapi.PaymentPaid {
			d.TotalSpent += p.Amount
			d.Currency = p.Currency
		}
	}

	if len(upcoming) > 0 {
		next := slices.MinFunc(upcoming, func(a, b reservationapi.Reservation) int {
			return cmp.Compare(a.Date+" "+a.Time, b.Date+" "+b.Time)
		})
		d.Next = &next
	}
	return d
}

func writeList[T any](w http.ResponseWriter, items []T) {
	writeJSON(w, http.StatusOK, reservationapi.ListResponse[T]{Data: append([]T{}, items...)})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, reservationapi.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
