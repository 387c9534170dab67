package llm

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("empty response from model")

type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

type Completion struct {
	Text  string
	Model string
}

// Completer issues one chat completion with a system and a user message.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
