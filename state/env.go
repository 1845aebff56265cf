// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mdprint/config"
)

type envKey struct{}

// Overrides are document settings given on command line. They win over
// front matter and configuration.
type Overrides struct {
	Theme     string
	Paper     config.Paper
	TOC       *bool
	TOCDepth  int
	TitlePage *bool
}

// Output controls where convert command puts results.
type Output struct {
	NoDirs    bool
	Overwrite bool
	Stdout    bool
}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	Overrides
	Output

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext panics when context was not prepared with ContextWithEnv,
// this is programming error.
func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library logger, used by some
// dependencies, to program log at warning level.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil || e.restoreStdLog != nil {
		return
	}
	restore, err := zap.RedirectStdLogAt(e.Log.Named("stdlog"), zap.WarnLevel)
	if err != nil {
		e.Log.Debug("Unable to redirect standard logger", zap.Error(err))
		return
	}
	e.restoreStdLog = restore
}

// RestoreStdLog flushes program log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
