package platforms

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticEvent is a structured note from a detection strategy about why
// it did or did not produce a result.
type DiagnosticEvent struct {
	Level    zapcore.Level
	Strategy string
	Message  string
	Fields   []zap.Field
}

type DiagnosticSink interface {
	Emit(e DiagnosticEvent)
}

type zapSink struct {
	logger *zap.Logger
}

// NewZapSink writes diagnostics to logger under the "trades" name.
func NewZapSink(logger *zap.Logger) DiagnosticSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapSink{logger: logger.Named("trades")}
}

func (s *zapSink) Emit(e DiagnosticEvent) {
	if ce := s.logger.Check(e.Level, e.Message); ce != nil {
		ce.Write(append([]zap.Field{zap.String("strategy", e.Strategy)}, e.Fields...)...)
	}
}

// RecordingSink keeps events in memory.
type RecordingSink struct {
	Events []DiagnosticEvent
}

func (s *RecordingSink) Emit(e DiagnosticEvent) {
	s.Events = append(s.Events, e)
}

func Debug(sink DiagnosticSink, strategy, msg string, fields ...zap.Field) {
	sink.Emit(DiagnosticEvent{Level: zapcore.DebugLevel, Strategy: strategy, Message: msg, Fields: fields})
}

func Info(sink DiagnosticSink, strategy, msg string, fields ...zap.Field) {
	sink.Emit(DiagnosticEvent{Level: zapcore.InfoLevel, Strategy: strategy, Message: msg, Fields: fields})
}

func Warn(sink DiagnosticSink, strategy, msg string, fields ...zap.Field) {
	sink.Emit(DiagnosticEvent{Level: zapcore.WarnLevel, Strategy: strategy, Message: msg, Fields: fields})
}
