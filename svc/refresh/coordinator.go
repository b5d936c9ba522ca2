package refresh

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/reservekit/pkg/async"
	"github.com/dmitrymomot/reservekit/pkg/logger"
)

// Operation refetches one area. Its result lands wherever the operation
// stores it; the value is returned for diagnostics only.
type Operation func(ctx context.Context) (any, error)

// Operations maps areas to their refresh operation.
type Operations map[Area]Operation

type Status string

const (
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Outcome is the settlement of one refresh operation.
type Outcome struct {
	Area   Area
	Label  string
	Status Status
	Value  any
	Err    error
}

func (o Outcome) Fulfilled() bool {
	return o.Status == StatusFulfilled
}

// Coordinator fans refresh operations out concurrently and collects every
// outcome. It owns no state besides its operations.
type Coordinator struct {
	ops     Operations
	log     *slog.Logger
	reg     prometheus.Registerer
	metrics *metrics
}

type Option func(*Coordinator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records an outcome counter and a duration histogram per area.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Coordinator) {
		c.reg = reg
	}
}

func New(ops Operations, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		ops: make(Operations, len(ops)),
		log: slog.Default(),
	}
	for area, op := range ops {
		if op != nil {
			c.ops[area] = op
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("refresh"))

	if c.reg != nil {
		m, err := newMetrics(c.reg)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c, nil
}

type dispatched struct {
	area     Area
	duration time.Duration
	value    any
}

// Refresh runs the operations selected by opts concurrently and waits for
// all of them to settle. Outcomes follow dispatch order. Individual failures
// never fail the call; an error is returned only when ctx is already done
// before anything is dispatched. An empty selection returns nil at once.
func (c *Coordinator) Refresh(ctx context.Context, opts Options) ([]Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrRefreshAborted, err)
	}

	var selected []Area
	for _, area := range opts.Selected() {
		if _, ok := c.ops[area]; !ok {
			c.log.DebugContext(ctx, "no refresh operation registered", logger.Area(string(area)))
			continue
		}
		selected = append(selected, area)
	}
	if len(selected) == 0 {
		return nil, nil
	}

	start := time.Now()
	futures := make([]*async.Future[dispatched], len(selected))
	for i, area := range selected {
		futures[i] = async.Async(ctx, area, c.run)
	}

	settled := async.WaitAllSettled(futures...)
	outcomes := make([]Outcome, len(settled))
	failed := 0

	for i, s := range settled {
		area := selected[i]
		out := Outcome{Area: area, Label: area.Label(), Status: StatusFulfilled, Value: s.Value.value}
		if !s.Fulfilled() {
			out.Status = StatusRejected
			out.Err = s.Err
			out.Value = nil
			failed++

			if !opts.Silent {
				c.log.ErrorContext(ctx, "user data refresh failed",
					logger.Area(string(area)),
					logger.Error(s.Err),
				)
			}
		}
		c.metrics.observe(area, out.Status, s.Value.duration)
		outcomes[i] = out
	}

	c.log.DebugContext(ctx, "user data refreshed",
		slog.Int("areas", len(outcomes)),
		slog.Int("failed", failed),
		logger.Duration(time.Since(start)),
	)
	return outcomes, nil
}

func (c *Coordinator) run(ctx context.Context, area Area) (d dispatched, err error) {
	start := time.Now()
	d.area = area
	defer func() {
		d.duration = time.Since(start)
	}()

	d.value, err = c.ops[area](ctx)
	return d, err
}

// Rejected returns the failed outcomes.
func Rejected(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if !o.Fulfilled() {
			out = append(out, o)
		}
	}
	return out
}
