package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores the request id used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs how long an operation took. Use as
//
//	defer obs.Time(ctx, "plans.sqlite.Save")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	return timeWith(ctx, logrus.StandardLogger(), name)
}

func timeWith(ctx context.Context, logger logrus.FieldLogger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		entry := logger.WithFields(logrus.Fields{
			"req_id": RequestID(ctx),
			"op":     name,
			"dur_ms": time.Since(start).Milliseconds(),
		})
		if errp != nil && *errp != nil {
			entry.WithError(*errp).Warn("operation failed")
			return
		}
		entry.Debug("operation done")
	}
}
