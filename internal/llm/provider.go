// Package llm talks to the chat model behind the assistant's fallback
// answers.
package llm

import (
	"context"
	"errors"
	"strings"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Request is one chat completion call.
type Request struct {
	Model       string // empty uses the provider default
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Reply is the model's answer to a Request.
type Reply struct {
	Text         string
	Model        string
	PromptTokens int
	ReplyTokens  int
	Truncated    bool // stopped at MaxTokens
}

// Provider defines the interface for chat model backends.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
	Name() string
}

// MaxHistory is the number of prior turns sent with each Chat call.
const MaxHistory = 12

// ErrEmptyReply is returned by Chat when the model answers with blank text.
var ErrEmptyReply = errors.New("llm: empty reply")

// Chat sends system, the most recent MaxHistory turns of history and a
// new user message to p and returns the trimmed reply text.
func Chat(ctx context.Context, p Provider, system string, history []Message, user string) (string, error) {
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	msgs := make([]Message, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: user})

	reply, err := p.Complete(ctx, Request{Messages: msgs, Temperature: 0.4})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(reply.Text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
