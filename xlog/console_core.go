package xlog

import (
	"go.uber.org/zap/zapcore"
)

// Levels and timestamps are encoded by the logger options, the keys are
// fixed for every console output.
func consoleEncoderCfg() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		TimeKey:       "ts",
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
}

// newConsoleCore writes the benchmark progress and rows to ws, usually
// the buffered stdout. A nil ws disables the core.
func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder logEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) xLogCore {
	if ws == nil {
		return nil
	}
	return newCommonCore(lvlEnabler, getEncoderByType(encoder), ws, lvlEnc, tsEnc, consoleEncoderCfg())
}
