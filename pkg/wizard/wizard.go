package wizard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/reservekit/pkg/logger"
	"github.com/dmitrymomot/reservekit/pkg/statemachine"
)

const (
	eventNext = statemachine.StringEvent("next")
	eventBack = statemachine.StringEvent("back")
)

// Gate decides whether the user may leave a step forwards. A non-nil error
// blocks the move and is shown to the user as a single step-level message.
type Gate func(ctx context.Context) error

// Step is one screen of a wizard.
type Step struct {
	Name string
	Gate Gate
	// Locked steps cannot be left with Previous, e.g. a confirmation screen.
	Locked bool
}

// StepChangeFunc is called after the current step changed.
type StepChangeFunc func(ctx context.Context, from, to string)

// Controller moves through an ordered list of steps. The step index always
// stays within bounds. Forward moves run the gate of the step being left.
type Controller struct {
	steps    []Step
	index    map[string]int
	machine  statemachine.StateMachine
	logger   *slog.Logger
	onChange []StepChangeFunc
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// OnStepChange registers fn to run after every successful move.
func OnStepChange(fn StepChangeFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// New builds a controller positioned on the first step.
func New(steps []Step, opts ...Option) (*Controller, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	c := &Controller{
		steps:  append([]Step(nil), steps...),
		index:  make(map[string]int, len(steps)),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for i, s := range c.steps {
		if s.Name == "" {
			return nil, ErrEmptyStepName
		}
		if _, ok := c.index[s.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStep, s.Name)
		}
		c.index[s.Name] = i
	}
	for _, opt := range opts {
		opt(c)
	}

	defs := make([]statemachine.TransitionDef, 0, 2*len(c.steps))
	for i := 0; i+1 < len(c.steps); i++ {
		from := statemachine.StringState(c.steps[i].Name)
		to := statemachine.StringState(c.steps[i+1].Name)

		var guards []statemachine.Guard
		if gate := c.steps[i].Gate; gate != nil {
			guards = append(guards, func(ctx context.Context, _ statemachine.State, _ statemachine.Event, _ any) error {
				return gate(ctx)
			})
		}
		defs = append(defs, statemachine.TransitionDef{From: from, To: to, Event: eventNext, Guards: guards})

		if !c.steps[i+1].Locked {
			defs = append(defs, statemachine.TransitionDef{From: to, To: from, Event: eventBack})
		}
	}

	machine, err := statemachine.New(statemachine.StringState(c.steps[0].Name), statemachine.WithTransitions(defs))
	if err != nil {
		return nil, err
	}
	c.machine = machine

	return c, nil
}

// Current returns the name of the current step.
func (c *Controller) Current() string {
	return c.machine.Current().Name()
}

// Index returns the position of the current step.
func (c *Controller) Index() int {
	return c.index[c.Current()]
}

func (c *Controller) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

func (c *Controller) IsFirst() bool {
	return c.Index() == 0
}

// IsTerminal reports whether the current step is the last one.
func (c *Controller) IsTerminal() bool {
	return c.Index() == len(c.steps)-1
}

// CanAdvance runs the current step's gate without moving. It returns nil,
// ErrTerminalStep or a *GateError.
func (c *Controller) CanAdvance(ctx context.Context) error {
	if c.IsTerminal() {
		return ErrTerminalStep
	}
	return c.gateError(c.machine.Check(ctx, eventNext, nil))
}

// Next moves to the following step when the current step's gate passes.
// On rejection the step does not change and a *GateError is returned.
func (c *Controller) Next(ctx context.Context) error {
	from := c.Current()
	if c.IsTerminal() {
		return ErrTerminalStep
	}

	if err := c.machine.Fire(ctx, eventNext, nil); err != nil {
		err = c.gateError(err)
		c.logger.DebugContext(ctx, "wizard step gate rejected",
			logger.Step(from),
			logger.Error(err),
		)
		return err
	}

	c.changed(ctx, from)
	return nil
}

// Previous moves one step back. It is a no-op on the first step and returns
// ErrStepLocked on a locked step.
func (c *Controller) Previous(ctx context.Context) error {
	from := c.Current()
	if c.IsFirst() {
		return nil
	}
	if c.steps[c.index[from]].Locked {
		return ErrStepLocked
	}

	if err := c.machine.Fire(ctx, eventBack, nil); err != nil {
		return err
	}
	c.changed(ctx, from)
	return nil
}

// GoTo jumps back to an earlier step so the user can edit it.
func (c *Controller) GoTo(ctx context.Context, step string) error {
	target, ok := c.index[step]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, step)
	}
	if target > c.Index() {
		return ErrForwardJump
	}
	for c.Index() > target {
		if err := c.Previous(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns to the first step.
func (c *Controller) Reset(ctx context.Context) error {
	from := c.Current()
	if err := c.machine.Reset(); err != nil {
		return err
	}
	if from != c.Current() {
		c.changed(ctx, from)
	}
	return nil
}

func (c *Controller) changed(ctx context.Context, from string) {
	to := c.Current()
	c.logger.DebugContext(ctx, "wizard step changed",
		slog.String("from", from),
		logger.Step(to),
	)

	for _, fn := range c.onChange {
		fn(ctx, from, to)
	}
}

func (c *Controller) gateError(err error) error {
	if err == nil {
		return nil
	}
	if statemachine.IsTransitionRejectedError(err) {
		return &GateError{Step: c.Current(), Err: statemachine.RejectionReason(err)}
	}
	return err
}
