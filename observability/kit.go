package observability

import (
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type kitLogger struct{ l kitlog.Logger }

// NewKitLogger adapts a go-kit logger. Level filtering is left to the
// caller, e.g. level.NewFilter(l, level.AllowInfo()).
func NewKitLogger(l kitlog.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return kitLogger{l: l}
}

func (k kitLogger) Debug(msg string, fields ...Field) { k.log(level.Debug(k.l), msg, fields) }
func (k kitLogger) Info(msg string, fields ...Field)  { k.log(level.Info(k.l), msg, fields) }
func (k kitLogger) Warn(msg string, fields ...Field)  { k.log(level.Warn(k.l), msg, fields) }
func (k kitLogger) Error(msg string, fields ...Field) { k.log(level.Error(k.l), msg, fields) }

func (k kitLogger) With(fields ...Field) Logger {
	return kitLogger{l: kitlog.With(k.l, keyvals(fields)...)}
}

func (k kitLogger) log(l kitlog.Logger, msg string, fields []Field) {
	kv := append([]interface{}{"msg", msg}, keyvals(fields)...)
	_ = l.Log(kv...)
}

func keyvals(fields []Field) []interface{} {
	kv := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key(), f.Value())
	}
	return kv
}
