// Package observability wires OpenTelemetry into the extension runtime.
//
// InitTracer and InitMeter install OTLP HTTP providers globally; both return
// the provider so the caller owns its shutdown. Factory creation is traced
// with StartCreate/EndSpan and counted through Metrics:
//
//	ctx, span := observability.StartCreate(ctx, "editor.themes", "dark")
//	instance, err := factory.Create()
//	observability.EndSpan(span, err)
//
//	metrics.RecordCreate(ctx, "editor.themes", "dark", "ok", elapsed)
//
// A nil *Metrics records nothing, so callers never check for it.
package observability
