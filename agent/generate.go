package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentkit/logging"
	"github.com/hupe1980/agentkit/model"
)

// Generate runs the agent on a single user prompt.
func (a *Agent) Generate(ctx context.Context, prompt string) (*Result, error) {
	return a.GenerateContents(ctx, []model.Content{model.NewUserContent(prompt)})
}

// GenerateContents runs the agent on a conversation. contents is not modified.
func (a *Agent) GenerateContents(ctx context.Context, contents []model.Content) (*Result, error) {
	return a.run(ctx, contents, nil)
}

// Stream runs the agent on prompt and emits events while it progresses. The
// events channel is closed when the generation ends; a failure is delivered
// on the error channel. The final event has type StreamFinish.
func (a *Agent) Stream(ctx context.Context, prompt string) (<-chan StreamEvent, <-chan error) {
	events := make(chan StreamEvent, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errCh)

		emit := func(ev StreamEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		result, err := a.run(ctx, []model.Content{model.NewUserContent(prompt)}, emit)
		if err != nil {
			errCh <- err
			return
		}
		emit(StreamEvent{Type: StreamFinish, Result: result})
	}()

	return events, errCh
}

// run drives one generation shared by Generate and Stream. emit is nil for
// Generate.
func (a *Agent) run(ctx context.Context, input []model.Content, emit func(StreamEvent)) (*Result, error) {
	cfg := a.snapshot()

	result, err := a.loop(ctx, cfg, input, emit)

	finish := &HookContext{Context: ctx, Agent: a, Type: HookRunFinish, RunID: cfg.runID, Err: err}
	if hookErr := cfg.hooks.run(finish); hookErr != nil {
		cfg.logger.Warn("agent.run.finish_hook", "agent", cfg.name, "run", cfg.runID, "error", hookErr.Error())
	}

	return result, err
}

// loop is the step loop.
func (a *Agent) loop(ctx context.Context, cfg runConfig, input []model.Content, emit func(StreamEvent)) (*Result, error) {
	logger := cfg.logger
	runID := cfg.runID

	history := make([]model.Content, len(input), len(input)+2*cfg.maxSteps)
	copy(history, input)

	result := &Result{}

	logger.Debug("agent.run.start", "agent", cfg.name, "run", runID, "max_steps", cfg.maxSteps, "tools", len(cfg.tools))

	for step := 1; step <= cfg.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		instructions, err := cfg.instruction.Resolve(ctx, cfg.variables)
		if err != nil {
			return nil, fmt.Errorf("agent %s: resolve instructions: %w", cfg.name, err)
		}

		req := model.Request{
			Instructions:    instructions,
			Contents:        history,
			Tools:           cfg.toolDefs,
			ToolChoice:      cfg.toolChoice,
			Temperature:     cfg.temperature,
			MaxOutputTokens: cfg.maxOutputTokens,
			Stream:          cfg.stream || emit != nil,
		}

		if err := cfg.hooks.run(&HookContext{Context: ctx, Agent: a, Type: HookBeforeModel, RunID: runID, Step: step, Request: &req}); err != nil {
			return nil, err
		}

		logger.Debug("agent.step.start", "agent", cfg.name, "run", runID, "step", step)

		start := time.Now()
		resp, err := a.callModel(ctx, req, step, emit)
		if err != nil {
			logging.ModelCall(logger, a.llm.Info().Name, 0, time.Since(start), err, "agent", cfg.name, "run", runID, "step", step)
			hc := &HookContext{Context: ctx, Agent: a, Type: HookOnError, RunID: runID, Step: step, Request: &req, Err: err}
			if hookErr := cfg.hooks.run(hc); hookErr != nil {
				return nil, hookErr
			}
			return nil, fmt.Errorf("agent %s: step %d: %w", cfg.name, step, err)
		}

		var tokens int
		if resp.Usage != nil {
			tokens = resp.Usage.TotalTokens
		}
		logging.ModelCall(logger, a.llm.Info().Name, tokens, time.Since(start), nil,
			"agent", cfg.name,
			"run", runID,
			"step", step,
			"finish_reason", resp.FinishReason,
		)

		if err := cfg.hooks.run(&HookContext{Context: ctx, Agent: a, Type: HookAfterModel, RunID: runID, Step: step, Request: &req, Response: resp}); err != nil {
			return nil, err
		}

		content := model.Content{
			Role:  model.RoleAssistant,
			Parts: append([]model.Part(nil), resp.Content.Parts...),
		}
		calls := ensureCallIDs(content)

		stepResult := StepResult{
			Step:          step,
			Content:       content,
			Text:          content.Text(),
			FunctionCalls: calls,
			FinishReason:  resp.FinishReason,
		}
		stepResult.Usage.Add(resp.Usage)
		result.Usage.Add(resp.Usage)
		history = append(history, content)

		if len(calls) > 0 {
			responses, err := a.executeTools(ctx, cfg, step, calls, emit)
			if err != nil {
				return nil, err
			}
			stepResult.FunctionResponses = responses

			parts := make([]model.Part, 0, len(responses))
			for _, r := range responses {
				parts = append(parts, model.FunctionResponsePart{FunctionResponse: r})
			}
			history = append(history, model.Content{Role: model.RoleTool, Parts: parts})
		}

		result.Steps = append(result.Steps, stepResult)
		if emit != nil {
			sr := stepResult
			emit(StreamEvent{Type: StreamStepFinish, Step: step, StepResult: &sr})
		}
		if err := cfg.hooks.run(&HookContext{Context: ctx, Agent: a, Type: HookStepFinish, RunID: runID, Step: step, StepResult: &stepResult}); err != nil {
			return nil, err
		}

		if len(calls) == 0 {
			result.Text = stepResult.Text
			result.FinishReason = resp.FinishReason
			result.Messages = history
			logger.Debug("agent.run.complete", "agent", cfg.name, "run", runID, "steps", step)
			return result, nil
		}
	}

	// Step budget exhausted while the model still requested tools.
	last := result.Steps[len(result.Steps)-1]
	result.Text = last.Text
	result.FinishReason = FinishReasonMaxSteps
	result.Messages = history

	logger.Warn("agent.run.max_steps", "agent", cfg.name, "run", runID, "steps", cfg.maxSteps)

	return result, nil
}

// callModel performs one model request, forwarding partial text to emit.
func (a *Agent) callModel(ctx context.Context, req model.Request, step int, emit func(StreamEvent)) (*model.Response, error) {
	respCh, errCh := a.llm.Generate(ctx, req)

	var onPartial func(model.Response)
	if emit != nil {
		onPartial = func(r model.Response) {
			if text := r.Content.Text(); text != "" {
				emit(StreamEvent{Type: StreamTextDelta, Step: step, Text: text})
			}
		}
	}

	return model.Collect(ctx, respCh, errCh, onPartial)
}

// ensureCallIDs assigns identifiers to function calls the provider left
// unnamed so responses can be correlated. content is updated in place.
func ensureCallIDs(content model.Content) []model.FunctionCall {
	var calls []model.FunctionCall
	for i, p := range content.Parts {
		fc, ok := p.(model.FunctionCallPart)
		if !ok {
			continue
		}
		if fc.FunctionCall.ID == "" {
			fc.FunctionCall.ID = "call_" + uuid.NewString()
			content.Parts[i] = fc
		}
		calls = append(calls, fc.FunctionCall)
	}
	return calls
}
