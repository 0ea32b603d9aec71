package worker

import (
	"context"
	"sync"

	"github.com/Sokol111/log2kafka/pkg/core/health"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// worker represents a background worker that can be started and stopped.
type worker interface {
	Start()
	Stop(ctx context.Context)
}

// runnable is a type that has a Run method that can return a fatal error.
type runnable interface {
	Run(ctx context.Context) error
}

// shutdowner is the subset of fx.Shutdowner used by workers.
type shutdowner interface {
	Shutdown(opts ...fx.ShutdownOption) error
}

// Options contains configuration for a worker.
type Options struct {
	WaitReady       bool
	ShutdownOnError bool
	ShutdownOnDone  bool
}

// Option is a functional option for configuring a worker.
type Option func(*Options)

// WithReady makes the worker wait for all components to be ready before starting.
func WithReady() Option {
	return func(o *Options) {
		o.WaitReady = true
	}
}

// WithShutdown makes the worker trigger application shutdown on fatal error.
func WithShutdown() Option {
	return func(o *Options) {
		o.ShutdownOnError = true
	}
}

// WithShutdownOnDone makes the worker stop the application with exit code 0 once Run
// returns without error. For finite workloads such as reading a file to its end.
func WithShutdownOnDone() Option {
	return func(o *Options) {
		o.ShutdownOnDone = true
	}
}

type baseWorker struct {
	name       string
	ctx        context.Context
	cancelFunc context.CancelFunc
	done       chan struct{}
	log        *zap.Logger
	runFunc    func(ctx context.Context) error
	shutdowner shutdowner
	readiness  health.ReadinessWaiter
	options    Options
	startOnce  sync.Once
}

// Start starts the worker by running the function in a goroutine.
func (w *baseWorker) Start() {
	w.startOnce.Do(func() {
		w.log.Info("starting " + w.name)
		w.ctx, w.cancelFunc = context.WithCancel(context.Background())
		w.done = make(chan struct{})
		go func() {
			defer close(w.done)
			w.run()
		}()
	})
}

func (w *baseWorker) run() {
	if w.options.WaitReady {
		w.log.Info("waiting for components readiness")
		if err := w.readiness.WaitReady(w.ctx); err != nil {
			w.log.Info(w.name + " stopped (cancelled while waiting for readiness)")
			return
		}
		w.log.Info("components readiness achieved")
	}

	err := w.runFunc(w.ctx)
	switch {
	case err == nil && w.options.ShutdownOnDone && w.ctx.Err() == nil:
		w.log.Info(w.name + " finished, initiating shutdown")
		w.shutdown(0)
	case err == nil:
		w.log.Info(w.name + " stopped")
	case w.options.ShutdownOnError:
		w.log.Error(w.name+" fatal error, initiating shutdown", zap.Error(err))
		w.shutdown(1)
	default:
		w.log.Error(w.name+" stopped with error", zap.Error(err))
	}
}

func (w *baseWorker) shutdown(code int) {
	if err := w.shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
		w.log.Error("failed to initiate shutdown", zap.Error(err))
	}
}

// Stop cancels the worker and waits for it to finish or for ctx to expire.
func (w *baseWorker) Stop(ctx context.Context) {
	w.log.Info("stopping " + w.name)
	if w.cancelFunc == nil {
		return
	}
	w.cancelFunc()

	select {
	case <-w.done:
	case <-ctx.Done():
		w.log.Warn(w.name+" did not stop in time", zap.Error(ctx.Err()))
	}
}

// registerWorker registers a worker with fx.Lifecycle to start and stop with the application.
func registerWorker(lc fx.Lifecycle, w worker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop(ctx)
			return nil
		},
	})
}

// Register creates an fx.Annotate that provides a worker for the given dependency type.
// The dependency must have a Run(ctx context.Context) error method.
//
// Options:
//   - WithReady(): wait for all components to be ready before starting
//   - WithShutdown(): trigger application shutdown on fatal error
//   - WithShutdownOnDone(): stop the application when Run returns normally
//
// Example:
//
//	worker.Register[*forwarder.LineReader]("line-reader", worker.WithReady(), worker.WithShutdown())
func Register[T runnable](name string, opts ...Option) any {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	return fx.Annotate(
		func(lc fx.Lifecycle, log *zap.Logger, sd fx.Shutdowner, readiness health.ReadinessWaiter, dep T) worker {
			w := &baseWorker{
				name:       name,
				log:        log.With(zap.String("worker", name)),
				runFunc:    dep.Run,
				shutdowner: sd,
				readiness:  readiness,
				options:    options,
			}
			registerWorker(lc, w)
			return w
		},
		fx.ResultTags(`group:"workers"`),
	)
}

// NewWorkersModule instantiates every worker provided through Register so that their
// lifecycle hooks are installed.
func NewWorkersModule() fx.Option {
	return fx.Invoke(
		fx.Annotate(
			func([]worker) {},
			fx.ParamTags(`group:"workers"`),
		),
	)
}
