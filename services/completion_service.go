package services

import (
	"context"
	"strings"

	"chatbot-backend/config"
	"chatbot-backend/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Completer performs one completion request: a constructed system prompt
// plus the latest user message. No streaming, no multi-turn context.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// OpenAICompleter talks to the OpenAI chat completions API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	return &OpenAICompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// CompletionService wraps a Completer with the bot's fallback semantics.
type CompletionService struct {
	Completer Completer
}

func NewCompletionService(c Completer) *CompletionService {
	return &CompletionService{Completer: c}
}

// Generate runs one completion for the given configuration. An upstream
// failure is returned as an error; an empty completion degrades to the
// configured fallback text.
func (s *CompletionService) Generate(ctx context.Context, cfg *models.BotConfig, message string) (string, error) {
	text, err := s.Completer.Complete(ctx, BuildSystemPrompt(cfg), message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return FallbackText(cfg), nil
	}
	return text, nil
}

// Reply is Generate with the session-flow failure semantics: a completion
// failure never fails the session, the visitor gets the fallback text.
func (s *CompletionService) Reply(ctx context.Context, cfg *models.BotConfig, message string) string {
	if s == nil || s.Completer == nil {
		return FallbackText(cfg)
	}
	text, err := s.Generate(ctx, cfg, message)
	if err != nil {
		config.Log.Error("Completion request failed: ", err)
		return FallbackText(cfg)
	}
	return text
}
