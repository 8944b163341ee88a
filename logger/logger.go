package logger

import "go.uber.org/zap"

var log = zap.NewNop()

// SetType selects the development logger for "dev" and the production one otherwise.
// Both write to stderr.
func SetType(mode string) {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "dev" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return
	}
	log = l
}

// Use replaces the logger, mostly for tests.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

func toFields(xs ...interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(xs))
	i := 0
	for i < len(xs) {
		switch v := xs[i].(type) {
		case zap.Field:
			out = append(out, v)
			i++
		case error:
			out = append(out, zap.Error(v))
			i++
		case string:
			if i+1 < len(xs) {
				if err, ok := xs[i+1].(error); ok {
					out = append(out, zap.NamedError(v, err))
				} else {
					out = append(out, zap.Any(v, xs[i+1]))
				}
				i += 2
			} else {
				out = append(out, zap.Any(v, nil))
				i++
			}
		default:
			out = append(out, zap.Any("", v))
			i++
		}
	}
	return out
}

func Info(msg string, fields ...interface{}) {
	log.Info(msg, toFields(fields...)...)
}

func Error(msg string, fields ...interface{}) {
	log.Error(msg, toFields(fields...)...)
}

func Warn(msg string, fields ...interface{}) {
	log.Warn(msg, toFields(fields...)...)
}

func Debug(msg string, fields ...interface{}) {
	log.Debug(msg, toFields(fields...)...)
}

func Sync() {
	_ = log.Sync()
}
