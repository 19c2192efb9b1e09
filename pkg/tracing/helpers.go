package tracing

import (
	"context"
	"errors"
	"fmt"

	"go.opencensus.io/trace"
)

// StartServiceSpan starts a span named "<service>.<method>"
func StartServiceSpan(ctx context.Context, serviceName, methodName string) (context.Context, *trace.Span) {
	return trace.StartSpan(ctx, serviceName+"."+methodName)
}

// AddAttribute sets key on the span carried by ctx, if any. Integers are
// recorded as int64 and anything else unknown as its string form.
func AddAttribute(ctx context.Context, key string, value interface{}) {
	span := trace.FromContext(ctx)
	if span == nil {
		return
	}

	var attr trace.Attribute
	switch v := value.(type) {
	case string:
		attr = trace.StringAttribute(key, v)
	case bool:
		attr = trace.BoolAttribute(key, v)
	case int:
		attr = trace.Int64Attribute(key, int64(v))
	case int32:
		attr = trace.Int64Attribute(key, int64(v))
	case int64:
		attr = trace.Int64Attribute(key, v)
	case fmt.Stringer:
		attr = trace.StringAttribute(key, v.String())
	default:
		attr = trace.StringAttribute(key, fmt.Sprintf("%v", v))
	}
	span.AddAttributes(attr)
}

// MarkSpanError sets the span status from err. Deadline and cancellation
// errors keep their own status codes so slow saves are visible as such.
func MarkSpanError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	span := trace.FromContext(ctx)
	if span == nil {
		return
	}

	span.SetStatus(trace.Status{Code: statusCode(err), Message: err.Error()})
}

func statusCode(err error) int32 {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return trace.StatusCodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return trace.StatusCodeCancelled
	default:
		return trace.StatusCodeUnknown
	}
}
