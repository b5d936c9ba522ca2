package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reservekit/pkg/async"
	"github.com/dmitrymomot/reservekit/pkg/form"
	"github.com/dmitrymomot/reservekit/pkg/i18n"
	"github.com/dmitrymomot/reservekit/pkg/logger"
	"github.com/dmitrymomot/reservekit/pkg/qrcode"
	"github.com/dmitrymomot/reservekit/pkg/requestid"
	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
	"github.com/dmitrymomot/reservekit/pkg/validator"
	"github.com/dmitrymomot/reservekit/pkg/wizard"
	"github.com/dmitrymomot/reservekit/svc/refresh"
)

const defaultMaxGuests = 20

// ReservationCreator creates the reservation once the draft is complete.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, req reservationapi.CreateReservationRequest) (*reservationapi.Reservation, error)
}

// Refresher resynchronises user data after a booking.
type Refresher interface {
	Refresh(ctx context.Context, opts refresh.Options) ([]refresh.Outcome, error)
}

// Confirmation is what the confirmation step shows.
type Confirmation struct {
	Reservation reservationapi.Reservation
	Breakdown   Breakdown
	// CheckIn is the URI encoded in QRCode.
	CheckIn string
	// QRCode is a PNG data URI, empty if it could not be generated.
	QRCode string
}

type Option func(*Wizard)

// WithClock replaces time.Now for the date and time checks.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.log = l
		}
	}
}

// WithTranslator localizes gate messages and contact form errors into
// Config.Language.
func WithTranslator(tr *i18n.Translator) Option {
	return func(w *Wizard) {
		w.tr = tr
	}
}

// WithRefresher starts a refresh with opts after every confirmed booking.
func WithRefresher(r Refresher, opts refresh.Options) Option {
	return func(w *Wizard) {
		w.refresher = r
		w.refreshOpts = opts
	}
}

// Wizard drives one booking from slot selection to confirmation.
// The draft changes only through its methods.
type Wizard struct {
	cfg         Config
	loc         *time.Location
	now         func() time.Time
	api         ReservationCreator
	refresher   Refresher
	refreshOpts refresh.Options
	tr          *i18n.Translator
	log         *slog.Logger

	flow    *wizard.Controller
	details *form.Engine

	submitting atomic.Bool

	mu             sync.Mutex
	draft          Draft
	idempotencyKey string
	lastErr        error
	confirmation   *Confirmation
	refreshResult  *async.Future[[]refresh.Outcome]
}

func New(cfg Config, service Service, api ReservationCreator, opts ...Option) (*Wizard, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: nil reservation creator", ErrInvalidConfig)
	}
	cfg, loc, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if service.MinGuests <= 0 {
		service.MinGuests = 1
	}
	if service.MaxGuests <= 0 {
		service.MaxGuests = max(defaultMaxGuests, service.MinGuests)
	}
	if err := service.validate(); err != nil {
		return nil, err
	}

	w := &Wizard{
		cfg:   cfg,
		loc:   loc,
		now:   time.Now,
		api:   api,
		log:   slog.Default(),
		draft: Draft{Service: service, Guests: service.MinGuests},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(logger.Component("booking"))

	formOpts := []form.Option{form.WithLogger(w.log)}
	if w.tr != nil {
		formOpts = append(formOpts, form.WithTranslator(w.tr, cfg.Language))
	}
	w.details, err = form.New([]form.FieldConfig{
		{
			Name:  FieldName,
			Label: w.text("contact.name", "Name"),
			Rules: []validator.FieldRule{validator.IsRequired(), validator.HasMinLength(2), validator.HasMaxLength(100)},
		},
		{
			Name:  FieldEmail,
			Label: w.text("contact.email", "Email"),
			Rules: []validator.FieldRule{validator.IsRequired(), validator.IsEmail()},
		},
		{
			Name:  FieldPhone,
			Label: w.text("contact.phone", "Phone"),
			Rules: []validator.FieldRule{validator.IsRequired(), validator.IsPhone()},
		},
		{
			Name:  FieldNotes,
			Label: w.text("contact.notes", "Notes"),
			Rules: []validator.FieldRule{validator.HasMaxLength(500)},
		},
	}, formOpts...)
	if err != nil {
		return nil, err
	}

	w.flow, err = wizard.New([]wizard.Step{
		{Name: StepDateTime, Gate: w.dateTimeGate},
		{Name: StepGuests, Gate: w.guestsGate},
		{Name: StepDetails, Gate: w.detailsGate},
		{Name: StepPayment, Gate: w.paymentGate},
		{Name: StepConfirmation, Locked: true},
	}, wizard.WithLogger(w.log))
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Step returns the current step name.
func (w *Wizard) Step() string { return w.flow.Current() }

func (w *Wizard) StepIndex() int { return w.flow.Index() }

func (w *Wizard) Steps() []string { return w.flow.Steps() }

// CanAdvance reports why Next would not move, or nil.
func (w *Wizard) CanAdvance(ctx context.Context) error {
	return w.flow.CanAdvance(ctx)
}

// Next moves to the following step. On the payment step it submits the
// reservation instead.
func (w *Wizard) Next(ctx context.Context) error {
	if w.flow.Current() == StepPayment {
		_, err := w.Submit(ctx)
		return err
	}
	return w.flow.Next(ctx)
}

func (w *Wizard) Previous(ctx context.Context) error {
	if w.submitting.Load() {
		return ErrSubmissionInProgress
	}
	return w.flow.Previous(ctx)
}

// GoTo jumps back to an earlier step.
func (w *Wizard) GoTo(ctx context.Context, step string) error {
	if w.submitting.Load() {
		return ErrSubmissionInProgress
	}
	return w.flow.GoTo(ctx, step)
}

// Draft returns a copy of the draft with the current contact form values.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	d := w.draft
	w.mu.Unlock()

	d.Contact = contactFrom(w.details.Values())
	return d
}

// Quote prices the current draft. It is derived on every call.
func (w *Wizard) Quote() Breakdown {
	return w.Draft().Quote(w.cfg.TaxRate)
}

// Details exposes the contact form for field level state.
func (w *Wizard) Details() *form.Engine { return w.details }

func (w *Wizard) SelectDate(date string) error {
	return w.mutate(func(d *Draft) error { d.Date = strings.TrimSpace(date); return nil })
}

func (w *Wizard) SelectTime(t string) error {
	return w.mutate(func(d *Draft) error { d.Time = strings.TrimSpace(t); return nil })
}

func (w *Wizard) SetGuestCount(n int) error {
	return w.mutate(func(d *Draft) error { d.Guests = n; return nil })
}

func (w *Wizard) SetPaymentMethod(method string) error {
	return w.mutate(func(d *Draft) error { d.PaymentMethod = strings.TrimSpace(method); return nil })
}

// SetContactField normalizes value and stores it in one contact form field.
func (w *Wizard) SetContactField(field, value string) error {
	if clean, ok := contactSanitizers[field]; ok {
		value = clean(value)
	}
	err := w.mutate(func(*Draft) error { return w.details.SetValue(field, value) })
	if errors.Is(err, form.ErrUnknownField) {
		return fmt.Errorf("%w: %s", ErrUnknownContactField, field)
	}
	return err
}

// TouchContactField marks a contact field as visited, validating it on blur.
func (w *Wizard) TouchContactField(field string) error {
	if err := w.details.MarkFieldAsTouched(field); err != nil {
		if errors.Is(err, form.ErrUnknownField) {
			return fmt.Errorf("%w: %s", ErrUnknownContactField, field)
		}
		return err
	}
	return nil
}

// Submit creates the reservation from the payment step. Only one submission
// runs at a time and the draft cannot change while it runs. Every step gate
// is checked again against the submitted draft, so edits made after passing
// a step cannot reach the backend unvalidated. On failure the wizard stays
// on the payment step and the error is kept in LastError; calling Submit
// again retries with the same idempotency key as long as the draft did not
// change.
func (w *Wizard) Submit(ctx context.Context) (*Confirmation, error) {
	draft, key, err := w.beginSubmit()
	if err != nil {
		return nil, err
	}
	defer w.submitting.Store(false)

	switch w.flow.Current() {
	case StepPayment:
	case StepConfirmation:
		return nil, ErrBookingConfirmed
	default:
		return nil, ErrNotReadyToSubmit
	}

	if err := w.verify(draft); err != nil {
		w.setLastErr(err)
		return nil, err
	}

	ctx, _ = requestid.Ensure(ctx)
	quote := draft.Quote(w.cfg.TaxRate)
	start := time.Now()

	res, err := w.api.CreateReservation(ctx, draft.request(quote, key))
	if err != nil {
		w.setLastErr(err)
		w.log.ErrorContext(ctx, "reservation submission failed",
			logger.Error(err),
			logger.Duration(time.Since(start)),
		)
		return nil, err
	}

	conf := &Confirmation{Reservation: *res, Breakdown: quote}
	conf.CheckIn = qrcode.CheckIn{
		ReservationID: res.ID,
		VenueID:       res.VenueID,
		Date:          res.Date,
		Time:          res.Time,
	}.Content()
	if uri, err := qrcode.DataURI(conf.CheckIn, w.cfg.QRSize); err != nil {
		w.log.WarnContext(ctx, "check-in code not generated", logger.ReservationID(res.ID), logger.Error(err))
	} else {
		conf.QRCode = uri
	}

	w.mu.Lock()
	w.confirmation = conf
	w.lastErr = nil
	w.idempotencyKey = ""
	w.mu.Unlock()

	if err := w.flow.Next(ctx); err != nil {
		w.log.ErrorContext(ctx, "confirmed reservation could not leave the payment step",
			logger.ReservationID(res.ID),
			logger.Error(err),
		)
		return conf, err
	}

	if w.refresher != nil {
		future := async.Async(context.WithoutCancel(ctx), w.refreshOpts, w.refresher.Refresh)
		w.mu.Lock()
		w.refreshResult = future
		w.mu.Unlock()
	}

	w.log.InfoContext(ctx, "reservation confirmed",
		logger.ReservationID(res.ID),
		logger.Duration(time.Since(start)),
	)
	return conf, nil
}

func (w *Wizard) IsSubmitting() bool { return w.submitting.Load() }

// LastError returns the error of the last failed submission, cleared by a
// successful one.
func (w *Wizard) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Wizard) Confirmation() (*Confirmation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation, w.confirmation != nil
}

// RefreshResult returns the user data refresh started by the last
// confirmation, or nil when none was started.
func (w *Wizard) RefreshResult() *async.Future[[]refresh.Outcome] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refreshResult
}

// Reset discards the draft and returns to the first step.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting.Load() {
		w.mu.Unlock()
		return ErrSubmissionInProgress
	}
	w.draft = Draft{Service: w.draft.Service, Guests: w.draft.Service.MinGuests}
	w.idempotencyKey = ""
	w.lastErr = nil
	w.confirmation = nil
	w.refreshResult = nil
	w.mu.Unlock()

	w.details.ResetForm()
	return w.flow.Reset(ctx)
}

// mutate applies fn under mu. The submitting flag is checked while holding
// mu, which pairs with beginSubmit so no edit lands between the start of a
// submission and its draft snapshot.
func (w *Wizard) mutate(fn func(d *Draft) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting.Load() {
		return ErrSubmissionInProgress
	}
	if w.confirmation != nil {
		return ErrBookingConfirmed
	}
	if err := fn(&w.draft); err != nil {
		return err
	}
	w.idempotencyKey = ""
	return nil
}

// beginSubmit marks the wizard as submitting and snapshots the draft with
// its idempotency key in the same critical section.
func (w *Wizard) beginSubmit() (Draft, string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.submitting.CompareAndSwap(false, true) {
		return Draft{}, "", ErrSubmissionInProgress
	}
	if w.idempotencyKey == "" {
		w.idempotencyKey = uuid.NewString()
	}
	d := w.draft
	d.Contact = contactFrom(w.details.Values())
	return d, w.idempotencyKey, nil
}

// verify runs every step gate against d in step order and reports the first
// rejection as a *wizard.GateError naming the failing step.
func (w *Wizard) verify(d Draft) error {
	checks := []struct {
		step  string
		check func() error
	}{
		{StepDateTime, func() error { _, err := w.checkSlot(d); return err }},
		{StepGuests, func() error { return w.checkGuests(d) }},
		{StepDetails, w.checkDetails},
		{StepPayment, func() error { return w.checkPayment(d) }},
	}
	for _, c := range checks {
		if err := c.check(); err != nil {
			return &wizard.GateError{Step: c.step, Err: err}
		}
	}
	return nil
}

func (w *Wizard) setLastErr(err error) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
}

func (w *Wizard) dateTimeGate(context.Context) error {
	_, err := w.checkSlot(w.Draft())
	return err
}

func (w *Wizard) checkSlot(d Draft) (time.Time, error) {
	if d.Date == "" || d.Time == "" {
		return time.Time{}, w.fail(ErrSlotNotSelected, "booking.select_datetime", "Select a date and time")
	}
	slot, err := d.Slot(w.loc)
	if err != nil {
		return time.Time{}, w.fail(ErrSlotInvalid, "booking.invalid_datetime", "The selected date or time is not valid")
	}

	now := w.now().In(w.loc)
	horizon := now.AddDate(0, w.cfg.HorizonMonths, 0)
	err = validator.Apply(
		validator.FutureDateAt("slot", slot, now),
		validator.DateNotAfter("slot", slot, horizon),
	)
	for _, verr := range validator.ExtractValidationErrors(err) {
		if verr.Type == "date_future" {
			return time.Time{}, w.fail(ErrSlotInPast, "booking.past_datetime", "The selected time has already passed")
		}
		months := strconv.Itoa(w.cfg.HorizonMonths)
		return time.Time{}, w.fail(ErrSlotBeyondHorizon, "booking.beyond_horizon",
			"Reservations open up to "+months+" months ahead", "months", months)
	}
	return slot, nil
}

func (w *Wizard) guestsGate(context.Context) error {
	return w.checkGuests(w.Draft())
}

func (w *Wizard) checkGuests(d Draft) error {
	minG, maxG := d.Service.MinGuests, d.Service.MaxGuests

	if err := validator.Apply(
		validator.MinNum("guests", d.Guests, minG),
		validator.MaxNum("guests", d.Guests, maxG),
	); err != nil {
		lo, hi := strconv.Itoa(minG), strconv.Itoa(maxG)
		return w.fail(ErrGuestCount, "booking.guests_range",
			"Choose between "+lo+" and "+hi+" guests", "min", lo, "max", hi)
	}
	return nil
}

func (w *Wizard) detailsGate(context.Context) error {
	return w.checkDetails()
}

func (w *Wizard) checkDetails() error {
	w.details.TouchAll()
	if !w.details.ValidateForm() {
		return w.fail(ErrDetailsInvalid, "booking.fix_details", "Check your contact details")
	}
	return nil
}

func (w *Wizard) paymentGate(context.Context) error {
	return w.checkPayment(w.Draft())
}

func (w *Wizard) checkPayment(d Draft) error {
	if err := validator.Apply(validator.InList("payment_method", d.PaymentMethod, w.cfg.PaymentMethods)); err != nil {
		return w.fail(ErrPaymentMethod, "booking.select_payment", "Select a payment method")
	}
	return nil
}

func (w *Wizard) fail(reason error, key, fallback string, args ...string) error {
	return &gateFailure{reason: reason, message: w.text(key, fallback, args...)}
}

// text translates key into the configured language, or returns fallback.
func (w *Wizard) text(key, fallback string, args ...string) string {
	if w.tr == nil {
		return fallback
	}
	if s := w.tr.T(w.cfg.Language, key, args...); s != "" && s != key {
		return s
	}
	return fallback
}
