package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/agentkit/agent"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records model calls, token usage, tool calls and steps with an
// OpenTelemetry meter exported in Prometheus format.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	registry *prom.Registry

	modelCalls    metric.Int64Counter
	modelErrors   metric.Int64Counter
	modelDuration metric.Float64Histogram
	tokens        metric.Int64Counter
	toolCalls     metric.Int64Counter
	toolErrors    metric.Int64Counter
	toolDuration  metric.Float64Histogram
	steps         metric.Int64Counter

	started *inflight[time.Time]
}

// NewMetrics creates the instruments on a dedicated Prometheus registry.
func NewMetrics() (*Metrics, error) {
	registry := prom.NewRegistry()

	promExporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter))
	meter := provider.Meter("github.com/hupe1980/agentkit")

	m := &Metrics{
		provider: provider,
		registry: registry,
		started:  newInflight[time.Time](),
	}

	if m.modelCalls, err = meter.Int64Counter(
		"agentkit_model_calls",
		metric.WithDescription("Total model calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model calls counter: %w", err)
	}

	if m.modelErrors, err = meter.Int64Counter(
		"agentkit_model_errors",
		metric.WithDescription("Total failed model calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model errors counter: %w", err)
	}

	if m.modelDuration, err = meter.Float64Histogram(
		"agentkit_model_call_duration",
		metric.WithDescription("Model call duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model duration histogram: %w", err)
	}

	if m.tokens, err = meter.Int64Counter(
		"agentkit_model_tokens",
		metric.WithDescription("Total tokens used, by direction"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tokens counter: %w", err)
	}

	if m.toolCalls, err = meter.Int64Counter(
		"agentkit_tool_calls",
		metric.WithDescription("Total tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool calls counter: %w", err)
	}

	if m.toolErrors, err = meter.Int64Counter(
		"agentkit_tool_errors",
		metric.WithDescription("Total failed tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool errors counter: %w", err)
	}

	if m.toolDuration, err = meter.Float64Histogram(
		"agentkit_tool_call_duration",
		metric.WithDescription("Tool execution duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}

	if m.steps, err = meter.Int64Counter(
		"agentkit_agent_steps",
		metric.WithDescription("Total completed agent steps"),
	); err != nil {
		return nil, fmt.Errorf("failed to create steps counter: %w", err)
	}

	return m, nil
}

// Configure registers the metric hooks on a.
func (m *Metrics) Configure(a *agent.Agent) {
	info := a.Model().Info()
	modelAttrs := func(hc *agent.HookContext) metric.MeasurementOption {
		return metric.WithAttributes(
			attribute.String(AttrAgentName, hc.Agent.Name()),
			attribute.String(AttrProvider, info.Provider),
			attribute.String(AttrModel, info.Name),
		)
	}

	a.BeforeModel(func(hc *agent.HookContext) error {
		m.started.put(callKey{runID: hc.RunID, step: hc.Step}, time.Now())
		return nil
	})

	a.AfterModel(func(hc *agent.HookContext) error {
		attrs := modelAttrs(hc)
		m.modelCalls.Add(hc.Context, 1, attrs)
		m.observeDuration(hc.Context, m.modelDuration, callKey{runID: hc.RunID, step: hc.Step}, attrs)

		if usage := hc.Response.Usage; usage != nil {
			m.tokens.Add(hc.Context, int64(usage.PromptTokens), metric.WithAttributes(
				attribute.String(AttrModel, info.Name),
				attribute.String(AttrTokenDirection, "input"),
			))
			m.tokens.Add(hc.Context, int64(usage.CompletionTokens), metric.WithAttributes(
				attribute.String(AttrModel, info.Name),
				attribute.String(AttrTokenDirection, "output"),
			))
		}
		return nil
	})

	a.OnError(func(hc *agent.HookContext) error {
		attrs := modelAttrs(hc)
		m.modelCalls.Add(hc.Context, 1, attrs)
		m.modelErrors.Add(hc.Context, 1, attrs)
		m.observeDuration(hc.Context, m.modelDuration, callKey{runID: hc.RunID, step: hc.Step}, attrs)
		return nil
	})

	a.BeforeTool(func(hc *agent.HookContext) error {
		m.started.put(callKey{runID: hc.RunID, step: hc.Step, callID: hc.FunctionCall.ID}, time.Now())
		return nil
	})

	a.AfterTool(func(hc *agent.HookContext) error {
		status := "ok"
		if hc.FunctionResponse.Error != "" {
			status = "error"
		}
		attrs := metric.WithAttributes(
			attribute.String(AttrAgentName, hc.Agent.Name()),
			attribute.String(AttrToolName, hc.FunctionCall.Name),
			attribute.String(AttrStatus, status),
		)

		m.toolCalls.Add(hc.Context, 1, attrs)
		if status == "error" {
			m.toolErrors.Add(hc.Context, 1, attrs)
		}
		m.observeDuration(hc.Context, m.toolDuration, callKey{runID: hc.RunID, step: hc.Step, callID: hc.FunctionCall.ID}, attrs)
		return nil
	})

	a.AddHook(agent.NewHook(agent.HookStepFinish, func(hc *agent.HookContext) error {
		m.steps.Add(hc.Context, 1, metric.WithAttributes(attribute.String(AttrAgentName, hc.Agent.Name())))
		return nil
	}))

	a.OnRunFinish(func(hc *agent.HookContext) error {
		m.started.drain(hc.RunID)
		return nil
	})
}

func (m *Metrics) observeDuration(ctx context.Context, h metric.Float64Histogram, k callKey, attrs metric.MeasurementOption) {
	start, ok := m.started.take(k)
	if !ok {
		return
	}
	h.Record(ctx, time.Since(start).Seconds(), attrs)
}

// Handler serves the collected metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prom.Gatherer { return m.registry }

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
