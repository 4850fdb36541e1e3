package visibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/domain"
	visibilityPort "gitlab.apk-group.net/siem/backend/asset-visibility/internal/visibility/port"
	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

const DefaultFetchTimeout = 10 * time.Second

type collector struct {
	source       visibilityPort.Source
	normalizer   *Normalizer
	classifier   *Classifier
	dimensions   []domain.Dimension
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewCollector creates a collector fanning out over every dimension. A
// non-positive fetchTimeout falls back to DefaultFetchTimeout.
func NewCollector(source visibilityPort.Source, classifier *Classifier, fetchTimeout time.Duration) visibilityPort.Collector {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &collector{
		source:       source,
		normalizer:   NewNormalizer(classifier),
		classifier:   classifier,
		dimensions:   domain.AllDimensions(),
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// Collect fetches all dimensions concurrently and waits for every branch. A
// branch failure only marks its own dimension absent; if no dimension source
// could be reached the overview is returned with ErrInventoryUnavailable.
func (c *collector) Collect(ctx context.Context) (domain.Overview, error) {
	cycleID := uuid.NewString()
	logger.InfoContext(ctx, "Collector: Starting cycle %s over %d dimensions", cycleID, len(c.dimensions))

	states := make([]domain.DimensionState, len(c.dimensions))
	errs := make([]error, len(c.dimensions))

	var g errgroup.Group
	for i, dim := range c.dimensions {
		i, dim := i, dim
		g.Go(func() error {
			states[i], errs[i] = c.collectOne(ctx, dim)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logger.WarnContext(ctx, "Collector: Cycle %s cancelled, discarding result", cycleID)
		return domain.Overview{}, err
	}

	unreachable := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		logger.WarnContext(ctx, "Collector: Dimension %s absent: %v", c.dimensions[i], err)
		if errors.Is(err, domain.ErrSourceUnreachable) {
			unreachable++
		}
	}

	overview := domain.Overview{
		CycleID:     cycleID,
		GeneratedAt: c.now().UTC(),
		Dimensions:  states,
		Rollup:      Rollup(states, c.classifier),
	}

	if len(c.dimensions) > 0 && unreachable == len(c.dimensions) {
		logger.ErrorContext(ctx, "Collector: Cycle %s reached no dimension source", cycleID)
		return overview, fmt.Errorf("%w: all %d dimension sources unreachable", ErrInventoryUnavailable, unreachable)
	}

	logger.InfoContext(ctx, "Collector: Cycle %s finished, present: %d, critical: %d, status: %s",
		cycleID, overview.Rollup.DimensionsPresent, overview.Rollup.CriticalCount, overview.Rollup.Status)
	return overview, nil
}

func (c *collector) collectOne(ctx context.Context, dim domain.Dimension) (state domain.DimensionState, err error) {
	state = domain.DimensionState{Dimension: dim}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", domain.ErrSourceUnreachable, dim, r)
		}
		if err != nil {
			state.Available = false
			state.Metric = nil
			state.Error = err.Error()
		}
	}()

	doc, err := c.fetch(ctx, dim)
	if err != nil {
		return state, err
	}

	metric, err := c.normalizer.Normalize(dim, doc)
	if err != nil {
		return state, err
	}

	state.Available = true
	state.Metric = &metric
	return state, nil
}

// fetch bounds one source call by the fetch timeout. The call does not inherit
// the caller's cancellation; an overrunning call is abandoned and its late
// result dropped into the buffered channel.
func (c *collector) fetch(ctx context.Context, dim domain.Dimension) (interface{}, error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	defer cancel()

	type result struct {
		doc interface{}
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %s fetch panicked: %v", domain.ErrSourceUnreachable, dim, r)}
			}
		}()
		doc, err := c.source.Fetch(fetchCtx, dim)
		done <- result{doc: doc, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, asSourceError(dim, r.err)
		}
		return r.doc, nil
	case <-fetchCtx.Done():
		return nil, fmt.Errorf("%w: %s fetch exceeded %s", domain.ErrSourceUnreachable, dim, c.fetchTimeout)
	}
}

// asSourceError keeps shape and emptiness diagnostics and classifies everything
// else as an unreachable source
func asSourceError(dim domain.Dimension, err error) error {
	if errors.Is(err, domain.ErrSourceUnreachable) ||
		errors.Is(err, domain.ErrShapeMismatch) ||
		errors.Is(err, domain.ErrEmptyDimension) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreachable, dim, err)
}
