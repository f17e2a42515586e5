package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/extkit/logger"
)

var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// Run starts the process, blocks until a shutdown signal or ctx is done,
// then stops it. `extkit serve` runs this way.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		a.abort()
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts the process, runs task and stops when it returns. A
// shutdown signal cancels the task context. The task error takes precedence
// over shutdown errors.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		a.abort()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, shutdownSignals...)
	taskErr := task(taskCtx)
	cancel()

	if err := a.stop(); taskErr == nil {
		return err
	}
	return taskErr
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx is done. It returns the
// signal, or nil when ctx ended the wait.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops a process whose lifecycle the caller drives itself.
func (a *App[C]) Shutdown(context.Context) error {
	return a.stop()
}

// startup: components, OnStart, OnConfigure, ready check, OnReady, summary.
func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.MergeWithError(nil, err))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	if a.summaryOut != nil {
		a.Summary.Write(a.summaryOut, a.Components)
	}
	return nil
}

// abort releases whatever a failed startup already started.
func (a *App[C]) abort() {
	if err := a.stop(); err != nil {
		a.Logger.Warn("Cleanup after failed startup", logger.MergeWithError(nil, err))
	}
}

// stop runs the OnStop hooks, then stops the components, all within the
// graceful timeout. Both steps run even if the first fails.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := runHooks(ctx, a.onStop)
	if hookErr != nil {
		a.Logger.Error("OnStop hook error", logger.MergeWithError(nil, hookErr))
	}
	stopErr := a.Components.StopAll(ctx)
	if stopErr != nil {
		a.Logger.Error("Shutdown completed with errors", logger.MergeWithError(nil, stopErr))
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(hookErr, stopErr)
}
