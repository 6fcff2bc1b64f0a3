package session

import (
	"context"
	"errors"

	"github.com/hupe1980/agentkit/agent"
	"github.com/hupe1980/agentkit/model"
)

// ErrEmptySessionID is returned for operations without a session id.
var ErrEmptySessionID = errors.New("session: id must not be empty")

// Store persists conversation history by session id.
type Store interface {
	// History returns a copy of the messages of a session. Unknown sessions
	// have an empty history.
	History(sessionID string) ([]model.Content, error)
	// Append adds messages to a session, creating it if needed.
	Append(sessionID string, contents ...model.Content) error
	// Delete removes a session.
	Delete(sessionID string) error
}

// Send runs a on the history of sessionID followed by prompt. On success the
// prompt and all contents produced by the generation are appended to the
// store; on failure the store is left untouched.
func Send(ctx context.Context, a *agent.Agent, store Store, sessionID, prompt string) (*agent.Result, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	history, err := store.History(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := a.GenerateContents(ctx, append(history, model.NewUserContent(prompt)))
	if err != nil {
		return nil, err
	}

	if err := store.Append(sessionID, res.Messages[len(history):]...); err != nil {
		return nil, err
	}

	return res, nil
}
