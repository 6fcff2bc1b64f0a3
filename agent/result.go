package agent

import "github.com/hupe1980/agentkit/model"

// Finish reasons reported in addition to those of the model provider.
const (
	FinishReasonMaxSteps = "max_steps"
)

// StepResult describes one model call and the tool calls it triggered.
type StepResult struct {
	Step              int
	Content           model.Content
	Text              string
	FunctionCalls     []model.FunctionCall
	FunctionResponses []model.FunctionResponse
	FinishReason      string
	Usage             model.TokenUsage
}

// Result is the outcome of a generation.
type Result struct {
	// Text is the text of the final assistant message.
	Text string
	// Steps lists every step in execution order.
	Steps []StepResult
	// Messages is the full conversation: the input followed by all
	// assistant and tool contents produced during the generation.
	Messages     []model.Content
	FinishReason string
	Usage        model.TokenUsage
}

// StreamEventType identifies the payload of a StreamEvent.
type StreamEventType string

const (
	StreamTextDelta  StreamEventType = "text_delta"
	StreamToolCall   StreamEventType = "tool_call"
	StreamToolResult StreamEventType = "tool_result"
	StreamStepFinish StreamEventType = "step_finish"
	StreamFinish     StreamEventType = "finish"
)

// StreamEvent is emitted by Agent.Stream.
type StreamEvent struct {
	Type             StreamEventType
	Step             int
	Text             string
	FunctionCall     *model.FunctionCall
	FunctionResponse *model.FunctionResponse
	StepResult       *StepResult
	Result           *Result
}
