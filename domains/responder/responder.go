package responder

import "context"

// Turn is one prior utterance handed to the responder as context.
type Turn struct {
	Role string // "customer" or "agent"
	Text string
}

// Request is everything a provider needs to produce a reply.
type Request struct {
	SystemPrompt string
	History      []Turn
	UserText     string
	Model        string // empty selects the provider default
}

// Provider generates a reply from a hosted text-generation API. It may
// fail or return empty output; callers degrade to a fallback message.
type Provider interface {
	Name() string
	Generate(ctx context.Context, apiKey string, req Request) (string, error)
}
