package tool

import (
	"context"

	"github.com/hupe1980/agentkit/logging"
)

// Context is handed to Tool.Call. It carries the cancellation context of the
// generation plus identifiers correlating the call with the model request.
type Context struct {
	ctx            context.Context
	functionCallID string
	agentName      string
	step           int
	logger         logging.Logger
}

// NewContext constructs a tool call context. A nil logger is replaced by a NoOpLogger.
func NewContext(ctx context.Context, functionCallID, agentName string, step int, logger logging.Logger) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		ctx:            ctx,
		functionCallID: functionCallID,
		agentName:      agentName,
		step:           step,
		logger:         logging.OrNoOp(logger),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *Context) Context() context.Context { return tc.ctx }

// FunctionCallID returns the model supplied call identifier.
func (tc *Context) FunctionCallID() string { return tc.functionCallID }

// AgentName returns the name of the calling agent.
func (tc *Context) AgentName() string { return tc.agentName }

// Step returns the 1-based generation step that requested the call.
func (tc *Context) Step() int { return tc.step }

// Logger returns the logger associated with the tool invocation.
func (tc *Context) Logger() logging.Logger { return tc.logger }
