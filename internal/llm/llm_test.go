package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(url, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = url + "/v1"
	return NewOpenAIProviderWithConfig(cfg, model)
}

type countingProvider struct {
	calls int
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Complete(_ context.Context, _ Request) (*Reply, error) {
	p.calls++
	return &Reply{Text: "ok"}, nil
}

func TestRateLimitedProviderBurst(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, 2)
	assert.Equal(t, "counting", p.Name())

	for i := 0; i < 2; i++ {
		_, err := p.Complete(context.Background(), Request{})
		require.NoError(t, err)
	}

	// The bucket is empty; the third call waits ~30s and must give up.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Complete(ctx, Request{})
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedProviderDisabled(t *testing.T) {
	inner := &countingProvider{}
	assert.Same(t, Provider(inner), NewRateLimitedProvider(inner, 0))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("none", "", 0)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider("", "", 0)
	require.NoError(t, err)
	assert.Nil(t, p)

	t.Setenv("OPENAI_API_KEY", "")
	_, err = NewProvider("openai", "gpt-4o-mini", 10)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	p, err = NewProvider("openai", "gpt-4o-mini", 10)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider("anthropic", "", 0)
	assert.ErrorContains(t, err, "unsupported")
}

func TestOpenAIProviderComplete(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello from Quinn"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, "gpt-4o-mini")
	resp, err := p.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleSystem, Content: "be brief"}, {Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from Quinn", resp.Text)
	assert.Equal(t, 12, resp.PromptTokens)
	assert.Equal(t, 4, resp.ReplyTokens)
	assert.False(t, resp.Truncated)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, defaultMaxTokens, got["max_tokens"])
	msgs := got["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, "m")
	_, err := p.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorContains(t, err, "no choices")
}

type recordingProvider struct {
	req Request
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Complete(_ context.Context, req Request) (*Reply, error) {
	p.req = req
	return &Reply{Text: "reply"}, nil
}

func TestChat(t *testing.T) {
	p := &recordingProvider{}
	history := []Message{{Role: RoleUser, Content: "what is REPS?"}, {Role: RoleAssistant, Content: "a status"}}

	out, err := Chat(context.Background(), p, "you are Quinn", history, "and STR?")
	require.NoError(t, err)
	assert.Equal(t, "reply", out)
	require.Len(t, p.req.Messages, 4)
	assert.Equal(t, RoleSystem, p.req.Messages[0].Role)
	assert.Equal(t, "and STR?", p.req.Messages[3].Content)

	_, err = Chat(context.Background(), p, "", nil, "hi")
	require.NoError(t, err)
	assert.Len(t, p.req.Messages, 1)
}

func TestChatTrimsHistory(t *testing.T) {
	p := &recordingProvider{}
	var history []Message
	for i := 0; i < MaxHistory+5; i++ {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	_, err := Chat(context.Background(), p, "sys", history, "now")
	require.NoError(t, err)
	require.Len(t, p.req.Messages, MaxHistory+2)
	assert.Equal(t, "turn 5", p.req.Messages[1].Content)
}

type blankProvider struct{}

func (blankProvider) Name() string { return "blank" }

func (blankProvider) Complete(context.Context, Request) (*Reply, error) {
	return &Reply{Text: "  \n"}, nil
}

func TestChatEmptyReply(t *testing.T) {
	_, err := Chat(context.Background(), blankProvider{}, "", nil, "hi")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAIProviderTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"cut"},"finish_reason":"length"}]}`))
	}))
	defer srv.Close()

	resp, err := newTestProvider(srv.URL, "m").Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.True(t, resp.Truncated)
}
