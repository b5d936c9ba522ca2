package refresh_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reservekit/pkg/async"
	"github.com/dmitrymomot/reservekit/svc/refresh"
)

func ok(v any) refresh.Operation {
	return func(context.Context) (any, error) { return v, nil }
}

func fail(msg string) refresh.Operation {
	return func(context.Context) (any, error) { return nil, errors.New(msg) }
}

func allOps() refresh.Operations {
	ops := refresh.Operations{}
	for _, a := range refresh.Areas() {
		ops[a] = ok(string(a))
	}
	return ops
}

func TestOptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, refresh.Areas(), refresh.DefaultOptions().Selected())
	assert.Equal(t, refresh.Areas(), refresh.Options{}.Selected(), "the zero value refreshes everything")
	assert.Equal(t, refresh.Areas(), refresh.Options{Silent: true}.Selected())
	assert.Empty(t, refresh.Only().Selected())
	assert.Equal(t,
		[]refresh.Area{refresh.AreaReservations, refresh.AreaNotifications, refresh.AreaPayments},
		refresh.Options{SkipDashboard: true, SkipReceipts: true}.Selected(),
	)
	assert.Equal(t,
		[]refresh.Area{refresh.AreaReservations, refresh.AreaReceipts},
		refresh.Only(refresh.AreaReceipts, refresh.AreaReservations).Selected(),
		"selection follows dispatch order, not argument order",
	)
	assert.Equal(t, "Dashboard", refresh.AreaDashboard.Label())
}

func TestRefresh_SettlesEveryOperation(t *testing.T) {
	t.Parallel()

	// For every combination of selected areas and failing areas the call
	// resolves with one outcome per selected area.
	areas := refresh.Areas()
	for mask := range 1 << len(areas) {
		for failMask := range 1 << len(areas) {
			ops := refresh.Operations{}
			var selected []refresh.Area
			wantFailed := 0

			for i, a := range areas {
				if failMask&(1<<i) != 0 {
					ops[a] = fail(string(a) + " unavailable")
				} else {
					ops[a] = ok(i)
				}
				if mask&(1<<i) != 0 {
					selected = append(selected, a)
					if failMask&(1<<i) != 0 {
						wantFailed++
					}
				}
			}

			coord, err := refresh.New(ops, refresh.WithLogger(slog.New(slog.DiscardHandler)))
			require.NoError(t, err)

			outcomes, err := coord.Refresh(context.Background(), refresh.Only(selected...))
			require.NoError(t, err, "mask=%b fail=%b", mask, failMask)
			require.Len(t, outcomes, len(selected))
			assert.Len(t, refresh.Rejected(outcomes), wantFailed, "mask=%b fail=%b", mask, failMask)

			for i, o := range outcomes {
				assert.Equal(t, selected[i], o.Area)
				assert.Equal(t, selected[i].Label(), o.Label)
				if o.Fulfilled() {
					assert.NoError(t, o.Err)
				} else {
					assert.Equal(t, refresh.StatusRejected, o.Status)
					assert.EqualError(t, o.Err, string(o.Area)+" unavailable")
					assert.Nil(t, o.Value)
				}
			}
		}
	}
}

func TestRefresh_EmptySelection(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ops := refresh.Operations{refresh.AreaDashboard: func(context.Context) (any, error) {
		calls.Add(1)
		return nil, nil
	}}
	coord, err := refresh.New(ops)
	require.NoError(t, err)

	outcomes, err := coord.Refresh(context.Background(), refresh.Only())
	require.NoError(t, err)
	assert.Nil(t, outcomes)

	outcomes, err = coord.Refresh(context.Background(), refresh.Only(refresh.AreaPayments))
	require.NoError(t, err)
	assert.Nil(t, outcomes, "areas without an operation are skipped")
	assert.Zero(t, calls.Load())
}

func TestRefresh_RunsConcurrently(t *testing.T) {
	t.Parallel()

	var started sync.WaitGroup
	started.Add(len(refresh.Areas()))
	release := make(chan struct{})

	ops := refresh.Operations{}
	for _, a := range refresh.Areas() {
		ops[a] = func(ctx context.Context) (any, error) {
			started.Done()
			select {
			case <-release:
				return string(a), nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	coord, err := refresh.New(ops)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		started.Wait()
		close(release)
	}()

	outcomes, err := coord.Refresh(ctx, refresh.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	assert.Empty(t, refresh.Rejected(outcomes), "all operations must be in flight at the same time")
	for _, o := range outcomes {
		assert.Equal(t, string(o.Area), o.Value)
	}
}

func TestRefresh_PanicBecomesRejection(t *testing.T) {
	t.Parallel()

	ops := allOps()
	ops[refresh.AreaNotifications] = func(context.Context) (any, error) {
		panic("inbox exploded")
	}
	coord, err := refresh.New(ops, refresh.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	outcomes, err := coord.Refresh(context.Background(), refresh.DefaultOptions())
	require.NoError(t, err)

	rejected := refresh.Rejected(outcomes)
	require.Len(t, rejected, 1)
	assert.Equal(t, refresh.AreaNotifications, rejected[0].Area)
	assert.ErrorIs(t, rejected[0].Err, async.ErrPanic)
}

func TestRefresh_CancelledContext(t *testing.T) {
	t.Parallel()

	coord, err := refresh.New(allOps())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := coord.Refresh(ctx, refresh.DefaultOptions())
	assert.ErrorIs(t, err, refresh.ErrRefreshAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, outcomes)
}

func TestRefresh_Logging(t *testing.T) {
	t.Parallel()

	run := func(silent bool) string {
		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		ops := allOps()
		ops[refresh.AreaDashboard] = fail("dashboard timeout")
		ops[refresh.AreaReceipts] = fail("receipts timeout")

		coord, err := refresh.New(ops, refresh.WithLogger(log))
		require.NoError(t, err)

		opts := refresh.DefaultOptions()
		opts.Silent = silent
		_, err = coord.Refresh(context.Background(), opts)
		require.NoError(t, err)
		return buf.String()
	}

	loud := run(false)
	assert.Equal(t, 2, strings.Count(loud, "user data refresh failed"))
	assert.Contains(t, loud, "area=dashboard")
	assert.Contains(t, loud, "dashboard timeout")
	assert.Contains(t, loud, "area=receipts")

	assert.Empty(t, run(true))
}

func TestRefresh_SilentOptionsStillDispatch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var calls atomic.Int32
	ops := refresh.Operations{}
	for _, a := range refresh.Areas() {
		ops[a] = func(context.Context) (any, error) {
			calls.Add(1)
			return nil, errors.New(string(a) + " offline")
		}
	}
	coord, err := refresh.New(ops, refresh.WithLogger(log))
	require.NoError(t, err)

	outcomes, err := coord.Refresh(context.Background(), refresh.Options{Silent: true})
	require.NoError(t, err)
	require.Len(t, outcomes, len(refresh.Areas()))
	assert.Len(t, refresh.Rejected(outcomes), len(refresh.Areas()))
	assert.Equal(t, int32(len(refresh.Areas())), calls.Load())
	assert.Empty(t, buf.String())
}

func TestRefresh_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	ops := refresh.Operations{
		refresh.AreaReservations: ok(nil),
		refresh.AreaDashboard:    fail("boom"),
	}

	coord, err := refresh.New(ops, refresh.WithMetrics(reg), refresh.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	// A second coordinator on the same registry shares the collectors.
	_, err = refresh.New(ops, refresh.WithMetrics(reg))
	require.NoError(t, err)

	_, err = coord.Refresh(context.Background(), refresh.DefaultOptions())
	require.NoError(t, err)

	expected := `
# HELP reservekit_refresh_outcomes_total Settled user data refresh operations by area and status.
# TYPE reservekit_refresh_outcomes_total counter
reservekit_refresh_outcomes_total{area="dashboard",status="rejected"} 1
reservekit_refresh_outcomes_total{area="reservations",status="fulfilled"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "reservekit_refresh_outcomes_total"))

	count, err := testutil.GatherAndCount(reg, "reservekit_refresh_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func ExampleCoordinator_Refresh() {
	coord, _ := refresh.New(refresh.Operations{
		refresh.AreaReservations: ok(3),
		refresh.AreaPayments:     fail("payments offline"),
	}, refresh.WithLogger(slog.New(slog.DiscardHandler)))

	outcomes, _ := coord.Refresh(context.Background(), refresh.DefaultOptions())
	for _, o := range outcomes {
		fmt.Println(o.Label, o.Status)
	}
	// Output:
	// Reservations fulfilled
	// Payments rejected
}
