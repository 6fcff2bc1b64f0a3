package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/agentkit/logging"
	"github.com/hupe1980/agentkit/model"
	"github.com/hupe1980/agentkit/tool"
	"golang.org/x/sync/errgroup"
)

// executeTools runs the function calls of one step and returns one response
// per call in call order. Tool failures become error responses for the model;
// only hook errors and cancellation abort the generation.
func (a *Agent) executeTools(
	ctx context.Context,
	cfg runConfig,
	step int,
	calls []model.FunctionCall,
	emit func(StreamEvent),
) ([]model.FunctionResponse, error) {
	responses := make([]model.FunctionResponse, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.maxParallelTools > 0 {
		g.SetLimit(cfg.maxParallelTools)
	}

	batchStart := time.Now()
	for i := range calls {
		fc := calls[i]
		if emit != nil {
			emit(StreamEvent{Type: StreamToolCall, Step: step, FunctionCall: &fc})
		}
		g.Go(func() error {
			resp, err := a.executeTool(gctx, cfg, step, fc)
			if err != nil {
				return err
			}
			responses[i] = resp
			if emit != nil {
				emit(StreamEvent{Type: StreamToolResult, Step: step, FunctionResponse: &resp})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg.logger.Debug(
		"agent.tools.batch.complete",
		"agent", cfg.name,
		"step", step,
		"count", len(calls),
		"parallelism", cfg.maxParallelTools,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return responses, nil
}

func (a *Agent) executeTool(ctx context.Context, cfg runConfig, step int, fc model.FunctionCall) (model.FunctionResponse, error) {
	before := &HookContext{Context: ctx, Agent: a, Type: HookBeforeTool, RunID: cfg.runID, Step: step, FunctionCall: &fc}
	if err := cfg.hooks.run(before); err != nil {
		return model.FunctionResponse{}, err
	}

	start := time.Now()
	result, err := callTool(ctx, cfg, step, fc)
	resp := model.FunctionResponse{ID: fc.ID, Name: fc.Name, Response: result}
	if err != nil {
		resp.Error = err.Error()
	}

	logging.ToolCall(cfg.logger, fc.Name, time.Since(start), err,
		"agent", cfg.name,
		"run", cfg.runID,
		"step", step,
		"function_call_id", fc.ID,
	)

	after := &HookContext{Context: ctx, Agent: a, Type: HookAfterTool, RunID: cfg.runID, Step: step, FunctionCall: &fc, FunctionResponse: &resp}
	if err := cfg.hooks.run(after); err != nil {
		return model.FunctionResponse{}, err
	}

	return resp, nil
}

// callTool looks up, decodes and invokes a tool under the configured
// timeout. A tool that ignores its context keeps running in the background
// after the timeout fires; its result is discarded.
func callTool(ctx context.Context, cfg runConfig, step int, fc model.FunctionCall) (any, error) {
	impl, ok := cfg.tools[fc.Name]
	if !ok {
		return nil, tool.NewToolError(fc.Name, fmt.Sprintf("tool %s not found", fc.Name), tool.CodeNotFound)
	}

	args := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return nil, tool.NewToolError(fc.Name, fmt.Sprintf("failed to unmarshal args: %v", err), tool.CodeValidation)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.toolTimeout)
	defer cancel()

	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				cfg.logger.Error("agent.tool.panic", "agent", cfg.name, "tool", fc.Name, "recover", r, "stack", string(debug.Stack()))
				out = outcome{err: tool.NewToolError(fc.Name, fmt.Sprintf("panic: %v", r), tool.CodePanic)}
			}
			done <- out
		}()
		out.result, out.err = impl.Call(tool.NewContext(callCtx, fc.ID, cfg.name, step, cfg.logger), args)
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, tool.NewToolError(fc.Name, fmt.Sprintf("timed out after %s", cfg.toolTimeout), tool.CodeTimeout)
	}
}
