// Package state defines shared program state threaded through packctl's
// context.Context for the lifetime of a single invocation.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"modelpack/config"
)

type envKey struct{}

// Env keeps everything the packctl CLI needs in a single place.
type Env struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
}

func newEnv() *Env {
	return &Env{start: time.Now()}
}

// EnvFromContext recovers the Env previously installed by ContextWithEnv.
func EnvFromContext(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	// this should never happen
	panic("env not found in context")
}

// ContextWithEnv returns a context carrying a fresh Env.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newEnv())
}

// Uptime reports how long this invocation has been running.
func (e *Env) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog routes the standard library's log package through zap for
// the lifetime of this invocation.
func (e *Env) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog undoes RedirectStdLog and flushes the logger.
func (e *Env) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
