package xlog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func TestFxXLogger_LogEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewFxXLogger(NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(buf),
	))

	logger.LogEvent(&fxevent.Started{})
	logger.LogEvent(&fxevent.Invoked{FunctionName: "run", Err: errors.New("boom")})
	logger.LogEvent(&fxevent.Invoked{FunctionName: "quiet"})
	lines := testLogLines(t, buf)
	require.Len(t, lines, 2)
	require.Equal(t, "Fx", lines[0]["component"])
	require.Equal(t, "started", lines[0]["msg"])
	require.Equal(t, "ERROR", lines[1]["lvl"])
	require.Equal(t, "boom", lines[1]["error"])
	require.Equal(t, "run", lines[1]["function"])

	var nilLogger *FxXLogger
	require.NotPanics(t, func() {
		nilLogger.LogEvent(&fxevent.Started{})
	})
}

func TestFxXLogger_App(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(buf),
	)
	started := false
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return NewFxXLogger(parent)
		}),
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.StartHook(func() {
				started = true
			}))
		}),
	)
	require.NoError(t, app.Err())
	require.NoError(t, app.Start(context.Background()))
	require.NoError(t, app.Stop(context.Background()))
	require.True(t, started)
	require.Contains(t, buf.String(), "hook start executed")
}
