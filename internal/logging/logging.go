// Purpose: Provides the structured logger shared by every capture component.
// logging.go — thin wrapper around zap so call sites never import it
// directly. Every degrade/skip path in this module logs at Debug or Warn;
// nothing in the capture pipeline logs at Error (spec §7: no error in this
// pipeline terminates, so nothing here is an operator-facing failure).
package logging

import "go.uber.org/zap"

// Logger is the narrow interface call sites depend on, so tests can swap in
// zap's observer core or a no-op implementation without pulling in zap's
// full API surface.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
}

type zapLogger struct {
	l *zap.Logger
}

// New wraps a *zap.Logger as a Logger.
func New(l *zap.Logger) Logger {
	return zapLogger{l: l}
}

// NewNop returns a Logger that discards everything, used as the default when
// the embedding application does not supply its own logger.
func NewNop() Logger {
	return zapLogger{l: zap.NewNop()}
}

func (z zapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z zapLogger) With(fields ...zap.Field) Logger       { return zapLogger{l: z.l.With(fields...)} }

// Field re-exports zap.Field so call sites only need this package's import.
type Field = zap.Field

var (
	String = zap.String
	Int    = zap.Int
	Int64  = zap.Int64
	Bool   = zap.Bool
	Error  = zap.Error
)
