package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type Runner struct {
	Logger *zap.Logger
	// Timeout bounds all cleanups together. Zero uses 10s.
	Timeout time.Duration
}

func New(log *zap.Logger) *Runner {
	return &Runner{Logger: log}
}

// WithSignals runs start until it returns or SIGINT/SIGTERM arrives, then
// runs every cleanup with a bounded timeout. It returns the process exit code.
func (r *Runner) WithSignals(start func(ctx context.Context) error, cleanups ...func(context.Context) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return r.run(ctx, start, cleanups...)
}

func (r *Runner) run(ctx context.Context, start func(ctx context.Context) error, cleanups ...func(context.Context) error) int {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(ctx)
	}()

	code := 0
	select {
	case <-ctx.Done():
		r.Logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.Error("service exited with error", zap.Error(err))
			code = 1
		}
	}
	r.graceful(cleanups)
	return code
}

func (r *Runner) graceful(cleanups []func(context.Context) error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, fn := range cleanups {
		if err := fn(c); err != nil {
			r.Logger.Warn("shutdown step failed", zap.Error(err))
		}
	}
}

func Exit(code int) {
	os.Exit(code)
}
