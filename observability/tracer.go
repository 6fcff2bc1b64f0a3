package observability

import (
	"fmt"
	"io"

	"github.com/hupe1980/agentkit/agent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanModelCall     = "agentkit.model.generate"
	SpanToolExecution = "agentkit.tool.execute"
)

// Tracer records one span per model call and per tool call. Spans are
// children of the span in the context passed to Generate.
type Tracer struct {
	tracer trace.Tracer
	spans  *inflight[trace.Span]
}

// NewTracer creates a Tracer on tp. A nil tp uses the global provider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer: tp.Tracer("github.com/hupe1980/agentkit"),
		spans:  newInflight[trace.Span](),
	}
}

// NewStdoutTracerProvider exports spans as pretty-printed JSON to w. Call
// Shutdown on the returned provider to flush.
func NewStdoutTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

// Configure registers the tracing hooks on a.
func (t *Tracer) Configure(a *agent.Agent) {
	info := a.Model().Info()

	a.BeforeModel(func(hc *agent.HookContext) error {
		attrs := []attribute.KeyValue{
			attribute.String(AttrAgentName, hc.Agent.Name()),
			attribute.Int(AttrStep, hc.Step),
			attribute.String(AttrProvider, info.Provider),
			attribute.String(AttrModel, info.Name),
		}
		if hc.Request.MaxOutputTokens > 0 {
			attrs = append(attrs, attribute.Int64("gen_ai.request.max_tokens", hc.Request.MaxOutputTokens))
		}
		if hc.Request.Temperature != nil {
			attrs = append(attrs, attribute.Float64("gen_ai.request.temperature", *hc.Request.Temperature))
		}

		_, span := t.tracer.Start(hc.Context, SpanModelCall, trace.WithAttributes(attrs...))
		t.spans.put(callKey{runID: hc.RunID, step: hc.Step}, span)
		return nil
	})

	a.AfterModel(func(hc *agent.HookContext) error {
		span, ok := t.spans.take(callKey{runID: hc.RunID, step: hc.Step})
		if !ok {
			return nil
		}
		span.SetAttributes(
			attribute.String(AttrFinishReason, hc.Response.FinishReason),
			attribute.Int("agentkit.function_calls", len(hc.Response.Content.FunctionCalls())),
		)
		if usage := hc.Response.Usage; usage != nil {
			span.SetAttributes(
				attribute.Int(AttrInputTokens, usage.PromptTokens),
				attribute.Int(AttrOutputTokens, usage.CompletionTokens),
			)
		}
		span.End()
		return nil
	})

	a.OnError(func(hc *agent.HookContext) error {
		span, ok := t.spans.take(callKey{runID: hc.RunID, step: hc.Step})
		if !ok {
			return nil
		}
		span.RecordError(hc.Err)
		span.SetStatus(codes.Error, hc.Err.Error())
		span.End()
		return nil
	})

	a.BeforeTool(func(hc *agent.HookContext) error {
		_, span := t.tracer.Start(hc.Context, SpanToolExecution, trace.WithAttributes(
			attribute.String(AttrAgentName, hc.Agent.Name()),
			attribute.Int(AttrStep, hc.Step),
			attribute.String(AttrToolName, hc.FunctionCall.Name),
			attribute.String(AttrToolCallID, hc.FunctionCall.ID),
		))
		t.spans.put(callKey{runID: hc.RunID, step: hc.Step, callID: hc.FunctionCall.ID}, span)
		return nil
	})

	a.AfterTool(func(hc *agent.HookContext) error {
		span, ok := t.spans.take(callKey{runID: hc.RunID, step: hc.Step, callID: hc.FunctionCall.ID})
		if !ok {
			return nil
		}
		if msg := hc.FunctionResponse.Error; msg != "" {
			span.SetStatus(codes.Error, msg)
		}
		span.SetAttributes(attribute.Int("agentkit.tool.result_size", len(hc.FunctionResponse.Text())))
		span.End()
		return nil
	})

	// Spans whose after hook never ran because the generation was aborted.
	a.OnRunFinish(func(hc *agent.HookContext) error {
		for _, span := range t.spans.drain(hc.RunID) {
			if hc.Err != nil {
				span.RecordError(hc.Err)
				span.SetStatus(codes.Error, hc.Err.Error())
			}
			span.End()
		}
		return nil
	})
}
