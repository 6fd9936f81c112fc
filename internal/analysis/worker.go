package analysis

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Analyzer computes annotations for a buffer state.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, req Request) (Result, error)
}

// Worker runs an Analyzer on the newest pending request.
type Worker struct {
	analyzer Analyzer
	requests *Mailbox[Request]
	results  *Mailbox[Result]
	logger   *zap.Logger
}

// NewWorker creates a worker. A nil logger disables logging.
func NewWorker(a Analyzer, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		analyzer: a,
		requests: NewMailbox[Request](),
		results:  NewMailbox[Result](),
		logger:   logger.Named("analysis").With(zap.String("analyzer", a.Name())),
	}
}

// Submit queues req, replacing any request not yet started.
func (w *Worker) Submit(req Request) {
	if w.requests.Put(req) {
		w.logger.Debug("request superseded", zap.Uint64("generation", req.Generation))
	}
}

// Results returns the mailbox results are published to.
func (w *Worker) Results() *Mailbox[Result] {
	return w.results
}

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.requests.Ready():
		}
		req, ok := w.requests.Take()
		if !ok {
			continue
		}
		res, err := w.analyzer.Analyze(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.Warn("analysis failed", zap.Uint64("generation", req.Generation), zap.Error(err))
			continue
		}
		w.results.Put(res)
	}
}
