// Package reservationapi is the REST client of the reservation backend.
//
// The client covers reservation creation plus the read endpoints behind the
// user data areas (reservations, notifications, dashboard, payments,
// receipts). A bearer token identifies the user. Non-2xx answers come back
// as *APIError whose Error is the backend's human readable message.
//
// Package apitest provides an in-memory backend serving the same routes.
package reservationapi
