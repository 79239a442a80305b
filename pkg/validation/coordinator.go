package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/locator"
	"github.com/goliatone/go-schemaform/pkg/model"
)

var (
	// ErrNilRoot is returned when a pass is started without a rendered tree.
	ErrNilRoot = errors.New("validation: root is required")
	// ErrPending is returned by Submission.Result before the pass settles.
	ErrPending = errors.New("validation: submission has not settled")
)

// RerenderFunc receives the schema with fresh validity attached. It runs
// through the Scheduler after every settled pass.
type RerenderFunc func(schema model.Schema)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProvider sets the validity provider.
func WithProvider(provider ValidityProvider) Option {
	return func(c *Coordinator) {
		if provider != nil {
			c.provider = provider
		}
	}
}

// WithScheduler sets where the re-render is deferred to.
func WithScheduler(scheduler Scheduler) Option {
	return func(c *Coordinator) {
		if scheduler != nil {
			c.scheduler = scheduler
		}
	}
}

// WithRerender registers the re-render trigger.
func WithRerender(fn RerenderFunc) Option {
	return func(c *Coordinator) {
		c.rerender = fn
	}
}

// WithLogger attaches a zap logger. Passes are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides how submission IDs are produced.
func WithIDGenerator(fn func() string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Coordinator runs validation passes. It holds no per-pass state and is safe
// for concurrent use; every pass yields its own Submission.
type Coordinator struct {
	provider  ValidityProvider
	scheduler Scheduler
	rerender  RerenderFunc
	logger    *zap.Logger
	newID     func() string
}

// New builds a Coordinator. Without options it uses the HTML constraint
// provider, runs re-renders immediately and logs nothing.
func New(options ...Option) *Coordinator {
	c := &Coordinator{
		scheduler: Immediate{},
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.provider == nil {
		c.provider = DefaultProvider()
	}
	return c
}

// Validate runs a pass and returns its result. An invalid form is reported
// through Result.Valid, not as an error.
func (c *Coordinator) Validate(ctx context.Context, schema model.Schema, root dom.Node) (Result, error) {
	return c.Submit(ctx, schema, root).Result()
}

// Submit runs a pass and returns its settled handle. Fields are visited in
// schema order; each located control is checked by the provider. A field
// without a control is treated as valid and listed in Result.Missing.
func (c *Coordinator) Submit(ctx context.Context, schema model.Schema, root dom.Node) *Submission {
	sub := newSubmission(c.newID())
	logger := c.logger.With(zap.String("submission", sub.ID()))

	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.preflight(ctx, schema, root); err != nil {
		logger.Debug("validation pass failed", zap.Error(err))
		sub.settle(Result{}, err)
		return sub
	}

	sub.transition(StateCollecting)
	result := Result{
		Valid:    true,
		Controls: make(map[string]*dom.Control, len(schema)),
		Fields:   make(map[string]model.Field, len(schema)),
		Order:    make([]string, 0, len(schema)),
	}

	for _, field := range schema {
		if err := ctx.Err(); err != nil {
			logger.Debug("validation pass cancelled", zap.Error(err))
			sub.settle(Result{}, fmt.Errorf("validation: pass cancelled: %w", err))
			return sub
		}

		validity := model.ValidState()
		control, ok := locator.Locate(root, field.Name)
		if ok {
			validity = c.provider.Check(root, control)
			result.Controls[field.Name] = control
		} else {
			result.Missing = append(result.Missing, field.Name)
			logger.Debug("control not found", zap.String("field", field.Name))
		}

		snapshot := field.Clone()
		snapshot.Validity = &validity
		result.Fields[field.Name] = snapshot
		result.Order = append(result.Order, field.Name)
		if !validity.Valid {
			result.Valid = false
		}
	}

	sub.settle(result, nil)
	logger.Debug("validation pass settled",
		zap.Stringer("state", sub.State()),
		zap.Int("fields", len(result.Order)),
		zap.Strings("invalid", result.Invalid()),
	)

	if c.rerender != nil {
		fields := result.Schema()
		c.scheduler.Schedule(func() { c.rerender(fields) })
	}
	return sub
}

func (c *Coordinator) preflight(ctx context.Context, schema model.Schema, root dom.Node) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("validation: pass cancelled: %w", err)
	}
	if !isContainer(root) {
		return ErrNilRoot
	}
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("validation: invalid schema: %w", err)
	}
	return nil
}

func isContainer(n dom.Node) bool {
	switch v := n.(type) {
	case *dom.Element:
		return v != nil
	case *dom.Control:
		return v != nil
	default:
		return false
	}
}
