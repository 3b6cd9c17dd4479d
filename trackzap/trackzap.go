// Package trackzap logs tracked errors with go.uber.org/zap.
//
// The fields built here render a tracked error as an object holding its
// kind, cause and history, instead of the single string zap.Error
// produces:
//
//	logger.Error("load failed", trackzap.Error(err))
//
//	{"msg":"load failed","error":{"message":"NotFound (cause; no such file)",
//	 "kind":"NotFound","cause":"no such file","tracking":true,
//	 "history":[{"package":"example.com/app","file":"/src/app/load.go","line":12}]}}
package trackzap

import (
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/secureworks/trackable"
)

// Error is shorthand for NamedError("error", err).
func Error(err error) zap.Field {
	return NamedError("error", err)
}

// NamedError builds a field for err under the given key. Errors with a
// trackable link in their chain are logged as objects, and any other
// error as zap.NamedError does.
func NamedError(key string, err error) zap.Field {
	r, ok := trackable.ReportFrom(err)
	if !ok {
		return zap.NamedError(key, err)
	}
	return zap.Object(key, trackedError{msg: err.Error(), report: r})
}

// History builds a field for the events of h. A nil history is logged
// as an empty array.
func History(key string, h *trackable.History[trackable.Location]) zap.Field {
	return zap.Array(key, locations(h.Events()))
}

type trackedError struct {
	msg    string
	report trackable.Report
}

func (e trackedError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("message", e.msg)
	enc.AddString("kind", e.report.Kind)
	if e.report.Cause != "" {
		enc.AddString("cause", e.report.Cause)
	}
	enc.AddBool("tracking", e.report.Tracking)
	if len(e.report.History) == 0 {
		return nil
	}
	return enc.AddArray("history", locations(e.report.History))
}

type locations []trackable.Location

func (ls locations) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, l := range ls {
		if err := enc.AppendObject(location{l}); err != nil {
			return err
		}
	}
	return nil
}

type location struct {
	trackable.Location
}

func (l location) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if pkg := l.Package(); pkg != "" {
		enc.AddString("package", pkg)
	}
	enc.AddString("file", l.File())
	enc.AddUint32("line", l.Line())
	if msg := l.Message(); msg != "" {
		enc.AddString("message", msg)
	}
	return nil
}

// NewHistoryCore wraps core so that error fields holding a tracked
// error are logged the way NamedError logs them, including the fields
// added with Logger.With. Other fields are left untouched.
func NewHistoryCore(core zapcore.Core) zapcore.Core {
	return &historyCore{core}
}

type historyCore struct {
	zapcore.Core
}

func (c *historyCore) With(fields []zapcore.Field) zapcore.Core {
	return &historyCore{
		c.Core.With(expandTracked(fields)),
	}
}

func (c *historyCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, expandTracked(fields))
}

func (c *historyCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// expandTracked returns fields with tracked errors replaced. The input
// slice is not modified.
func expandTracked(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, field := range fields {
		if field.Type != zapcore.ErrorType {
			continue
		}
		err, ok := field.Interface.(error)
		if !ok {
			continue
		}
		if _, tracked := trackable.ReportFrom(err); !tracked {
			continue
		}
		if out == nil {
			out = slices.Clone(fields)
		}
		out[i] = NamedError(field.Key, err)
	}
	if out == nil {
		return fields
	}
	return out
}
