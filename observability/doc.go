// Package observability provides OpenTelemetry tracing and metrics
// integration for the transcription pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("scribekit"), log)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("scribekit"), log)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("scribekit"))
//	metrics.RecordChunkEnd(ctx, "ok", elapsed)
//
// A nil *PipelineMetrics records nothing, so the pipeline runs
// unchanged when metrics are not initialized.
package observability
