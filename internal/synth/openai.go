package synth

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/config"
	"github.com/campusqa/prashna/pkg/utils"
)

const promptTemplate = `You are an official AI assistant for NIT Jalandhar.

STRICT INSTRUCTIONS:
- Use ONLY the information provided in the Context.
- Do NOT use outside knowledge.
- If the answer is not present in the Context, reply exactly:
  "I could not find this information in official records."
- Provide a clear and concise answer.
- If dates, numbers, or names are asked, extract them precisely.

Context:
%s

Question:
%s

Answer:`

// OpenAISynthesizer calls an OpenAI-compatible chat endpoint. The default
// configuration points at a local Ollama server's /v1 surface.
type OpenAISynthesizer struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	temperature float32
	logger      *zap.Logger
}

func NewOpenAISynthesizer(cfg config.SynthesizerConfig, logger *zap.Logger) *OpenAISynthesizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAISynthesizer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		timeout:     cfg.Timeout(),
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Synthesize asks the model to answer from the supplied context only.
// Any transport failure, timeout, or empty completion yields FallbackText.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, contextText, question string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(promptTemplate, contextText, question),
			},
		},
	})
	if err != nil {
		s.logger.Warn("synthesis request failed", zap.Error(err))
		return FallbackText
	}
	if len(resp.Choices) == 0 {
		s.logger.Warn("synthesis returned no choices")
		return FallbackText
	}

	answer := utils.CollapseBlankLines(resp.Choices[0].Message.Content)
	if answer == "" {
		return FallbackText
	}
	return answer
}
