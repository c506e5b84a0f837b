package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements APIClient for tests.
type fakeAPI struct {
	chatResp  openai.ChatCompletionResponse
	chatErr   error
	chatReq   openai.ChatCompletionRequest
	embedResp openai.EmbeddingResponse
	embedErr  error
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.chatReq = req
	return f.chatResp, f.chatErr
}

func (f *fakeAPI) CreateEmbeddings(_ context.Context, _ openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	return f.embedResp, f.embedErr
}

func TestComplete(t *testing.T) {
	api := &fakeAPI{
		chatResp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "answer"}},
			},
		},
	}
	c := NewClientWithAPI(api, Config{ChatModel: "gpt-test"}, nil)

	out, err := c.Complete(context.Background(), CompletionRequest{
		System:      "be terse",
		User:        "question",
		Temperature: 0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", out)

	assert.Equal(t, "gpt-test", api.chatReq.Model)
	require.Len(t, api.chatReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, api.chatReq.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, api.chatReq.Messages[1].Role)
	assert.InDelta(t, 0.3, api.chatReq.Temperature, 0.001)
}

func TestCompleteWithoutSystemPrompt(t *testing.T) {
	api := &fakeAPI{
		chatResp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "ok"}},
			},
		},
	}
	c := NewClientWithAPI(api, Config{}, nil)

	_, err := c.Complete(context.Background(), CompletionRequest{User: "hi"})
	require.NoError(t, err)
	require.Len(t, api.chatReq.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, api.chatReq.Messages[0].Role)
	assert.Equal(t, DefaultChatModel, api.chatReq.Model)
}

func TestCompleteErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := NewClientWithAPI(&fakeAPI{chatErr: errors.New("rate limited")}, Config{}, nil)
		_, err := c.Complete(context.Background(), CompletionRequest{User: "hi"})
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		c := NewClientWithAPI(&fakeAPI{}, Config{}, nil)
		_, err := c.Complete(context.Background(), CompletionRequest{User: "hi"})
		assert.ErrorContains(t, err, "no choices")
	})
}

func TestEmbedOrdersByIndex(t *testing.T) {
	api := &fakeAPI{
		embedResp: openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Index: 1, Embedding: []float32{0.2}},
				{Index: 0, Embedding: []float32{0.1}},
			},
		},
	}
	c := NewClientWithAPI(api, Config{}, nil)

	vectors, err := c.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1}, vectors[0])
	assert.Equal(t, []float32{0.2}, vectors[1])
}

func TestEmbedErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		c := NewClientWithAPI(&fakeAPI{}, Config{}, nil)
		_, err := c.Embed(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("count mismatch", func(t *testing.T) {
		api := &fakeAPI{
			embedResp: openai.EmbeddingResponse{
				Data: []openai.Embedding{{Index: 0, Embedding: []float32{0.1}}},
			},
		}
		c := NewClientWithAPI(api, Config{}, nil)
		_, err := c.Embed(context.Background(), []string{"a", "b"})
		assert.ErrorContains(t, err, "mismatch")
	})
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)
}
