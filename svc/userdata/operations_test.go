package userdata_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
	"github.com/dmitrymomot/reservekit/pkg/reservationapi/apitest"
	"github.com/dmitrymomot/reservekit/svc/refresh"
	"github.com/dmitrymomot/reservekit/svc/userdata"
)

func TestOperations(t *testing.T) {
	t.Parallel()

	backend := apitest.NewBackend()
	client := apitest.NewTestClient(t, backend, "user_1")
	store := userdata.NewMemoryStore(16)
	ctx := context.Background()

	_, err := client.CreateReservation(ctx, reservationapi.CreateReservationRequest{
		ServiceID:     "svc_tasting",
		VenueID:       "venue_roma",
		Date:          "2025-06-01",
		Time:          "19:30",
		Guests:        2,
		Contact:       reservationapi.Contact{Name: "Ana", Email: "ana@example.mx"},
		PaymentMethod: "card",
		Total:         348000,
		Currency:      "MXN",
	})
	require.NoError(t, err)

	backend.Fail(apitest.RouteDashboard, http.StatusInternalServerError, "dashboard is rebuilding")

	coord, err := refresh.New(userdata.Operations(client, store, "user_1"), refresh.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	outcomes, err := coord.Refresh(ctx, refresh.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, outcomes, 5)

	rejected := refresh.Rejected(outcomes)
	require.Len(t, rejected, 1)
	assert.Equal(t, refresh.AreaDashboard, rejected[0].Area)
	assert.EqualError(t, rejected[0].Err, "dashboard is rebuilding")

	reservations, _, err := userdata.Get[[]reservationapi.Reservation](ctx, store, "user_1", refresh.AreaReservations)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "venue_roma", reservations[0].VenueID)

	receipts, _, err := userdata.Get[[]reservationapi.Receipt](ctx, store, "user_1", refresh.AreaReceipts)
	require.NoError(t, err)
	assert.Len(t, receipts, 1)

	_, err = store.Load(ctx, "user_1", refresh.AreaDashboard)
	assert.ErrorIs(t, err, userdata.ErrNotFound, "a failed area leaves no snapshot")

	for _, route := range []string{apitest.RouteReservations, apitest.RouteNotifications, apitest.RouteDashboard, apitest.RoutePayments, apitest.RouteReceipts} {
		assert.Equal(t, 1, backend.Calls(route), route)
	}
}
