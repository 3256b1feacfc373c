// Package tracer provides a lightweight tracing abstraction for the
// registration pipeline. The service emits spans through this interface so it
// stays decoupled from the OpenTelemetry APIs; production wires the OTel
// adapter, tests use the no-op tracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes. The
	// returned context carries the span and should flow to child operations.
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the registration module.
const (
	SpanCreate      = "registration.create"
	SpanUpdate      = "registration.update"
	SpanGet         = "registration.get"
	SpanDelete      = "registration.delete"
	SpanList        = "registration.list"
	SpanMediaUpload = "registration.media.upload"
)

// Attribute keys used by the registration module.
const (
	AttrRegistrationID = "registration.id"
	AttrMediaKind      = "media.kind"
	AttrMediaBytes     = "media.bytes"
	AttrPageNumber     = "page.number"
	AttrResultTotal    = "result.total"
)
