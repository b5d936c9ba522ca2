package userdata

import (
	"context"
	"time"

	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
	"github.com/dmitrymomot/reservekit/svc/refresh"
)

// Fetcher is the read side of the reservation API.
type Fetcher interface {
	ListReservations(ctx context.Context) ([]reservationapi.Reservation, error)
	ListNotifications(ctx context.Context) ([]reservationapi.Notification, error)
	GetDashboard(ctx context.Context) (*reservationapi.Dashboard, error)
	ListPayments(ctx context.Context) ([]reservationapi.Payment, error)
	ListReceipts(ctx context.Context) ([]reservationapi.Receipt, error)
}

// Operations returns one refresh operation per area. Each fetches its area
// from api and saves the result to store under userID.
func Operations(api Fetcher, store Store, userID string) refresh.Operations {
	return refresh.Operations{
		refresh.AreaReservations:  operation(store, userID, refresh.AreaReservations, api.ListReservations),
		refresh.AreaNotifications: operation(store, userID, refresh.AreaNotifications, api.ListNotifications),
		refresh.AreaDashboard:     operation(store, userID, refresh.AreaDashboard, api.GetDashboard),
		refresh.AreaPayments:      operation(store, userID, refresh.AreaPayments, api.ListPayments),
		refresh.AreaReceipts:      operation(store, userID, refresh.AreaReceipts, api.ListReceipts),
	}
}

func operation[T any](store Store, userID string, area refresh.Area, fetch func(context.Context) (T, error)) refresh.Operation {
	return func(ctx context.Context) (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		snap, err := NewSnapshot(area, value, time.Now())
		if err != nil {
			return nil, err
		}
		if err := store.Save(ctx, userID, snap); err != nil {
			return nil, err
		}
		return value, nil
	}
}
