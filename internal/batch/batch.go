// Package batch validates many artifacts concurrently.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/johnchase/qiime2/internal/logging"
	"github.com/johnchase/qiime2/internal/report"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
)

// DefaultConcurrency is used when no positive limit is configured.
const DefaultConcurrency = 4

// Validator validates a single stored artifact. *plugin.Manager
// implements it.
type Validator interface {
	ValidateFile(ctx context.Context, t semtype.Type, path string, level validate.Level) error
}

// Item is one artifact to validate.
type Item struct {
	Path string
	Type semtype.Type
}

// Runner validates items with bounded concurrency.
type Runner struct {
	validator   Validator
	concurrency int
	logger      *slog.Logger
	newID       func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency limits how many items are validated at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(v Validator, opts ...Option) *Runner {
	r := &Runner{
		validator:   v,
		concurrency: DefaultConcurrency,
		logger:      logging.NewDiscard(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates every item at level. Per-item outcomes are recorded in
// the result in input order; the returned error is non-nil only when ctx
// ends before every item was validated.
func (r *Runner) Run(ctx context.Context, items []Item, level validate.Level) (*report.Result, error) {
	runID := r.newID()
	logger := r.logger.With("run_id", runID)
	start := time.Now()

	logger.InfoContext(ctx, "starting validation run",
		"items", len(items),
		"level", string(level),
		"concurrency", r.concurrency,
	)

	outcomes := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			itemStart := time.Now()
			err := r.validator.ValidateFile(gctx, item.Type, item.Path, level)
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = err
			logger.DebugContext(gctx, "validated artifact",
				"path", item.Path,
				"type", item.Type.String(),
				"elapsed", time.Since(itemStart),
				"ok", err == nil,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.WarnContext(ctx, "validation run interrupted", "error", err)
		return nil, err
	}

	result := report.NewResult(runID, string(level))
	for i, item := range items {
		result.Record(item.Path, item.Type, outcomes[i])
	}

	logger.InfoContext(ctx, "finished validation run",
		"checked", result.Checked,
		"invalid", len(result.Errors()),
		"faults", len(result.Faults()),
		"unreadable", len(result.Unreadable()),
		"elapsed", time.Since(start),
	)
	return result, nil
}
