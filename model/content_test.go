package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent_Accessors(t *testing.T) {
	c := Content{
		Role: RoleAssistant,
		Parts: []Part{
			TextPart{Text: "Hello "},
			FunctionCallPart{FunctionCall: FunctionCall{ID: "1", Name: "a"}},
			TextPart{Text: "world"},
			FunctionResponsePart{FunctionResponse: FunctionResponse{ID: "1", Name: "a"}},
		},
	}

	assert.Equal(t, "Hello world", c.Text())
	assert.Equal(t, []FunctionCall{{ID: "1", Name: "a"}}, c.FunctionCalls())
	assert.Len(t, c.FunctionResponses(), 1)
}

func TestFunctionResponse_Text(t *testing.T) {
	assert.Equal(t, "plain", FunctionResponse{Response: "plain"}.Text())
	assert.Equal(t, `{"sum":3}`, FunctionResponse{Response: map[string]int{"sum": 3}}.Text())
	assert.Equal(t, "", FunctionResponse{}.Text())
	assert.JSONEq(t, `{"error":"boom"}`, FunctionResponse{Response: "ignored", Error: errors.New("boom").Error()}.Text())
}
