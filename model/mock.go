package model

import (
	"context"
	"fmt"
	"sync"
)

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Scripted responses are returned in order; once exhausted it echoes the last
// user text.
type MockModel struct {
	info Info

	mu       sync.Mutex
	script   []Response
	requests []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// AddTextResponse appends a final text response to the script.
func (m *MockModel) AddTextResponse(text string) *MockModel {
	return m.AddResponse(Response{
		Content:      NewTextContent(RoleAssistant, text),
		FinishReason: "stop",
	})
}

// AddToolCallResponse appends a response requesting the given function calls.
func (m *MockModel) AddToolCallResponse(calls ...FunctionCall) *MockModel {
	parts := make([]Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, FunctionCallPart{FunctionCall: c})
	}
	return m.AddResponse(Response{
		Content:      Content{Role: RoleAssistant, Parts: parts},
		FinishReason: "tool_calls",
	})
}

// AddResponse appends an arbitrary response to the script.
func (m *MockModel) AddResponse(r Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
	return m
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockModel) next(req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		return r, nil
	}
	if len(req.Contents) == 0 {
		return Response{}, fmt.Errorf("no contents provided")
	}
	var input string
	for i := len(req.Contents) - 1; i >= 0; i-- {
		if req.Contents[i].Role == RoleUser {
			input = req.Contents[i].Text()
			break
		}
	}
	return Response{
		Content:      NewTextContent(RoleAssistant, fmt.Sprintf("Mock response to: %s", input)),
		FinishReason: "stop",
	}, nil
}

// Generate implements Model; emits the text of the next response one rune at
// a time when streaming, then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		full, err := m.next(req)
		if err != nil {
			errCh <- err
			return
		}
		if req.Stream {
			for _, r := range full.Content.Text() {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{
					Partial: true,
					Content: NewTextContent(RoleAssistant, string(r)),
				}:
				}
			}
		}
		full.Partial = false
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- full:
		}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
