package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/edgecraft/backend/internal/apperr"
	"github.com/edgecraft/backend/internal/config"
	"github.com/edgecraft/backend/internal/model/chat"
)

// Service wraps the configured chat model behind the two operations the
// product needs: single-shot text generation and streamed role-play turns.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	cfg       config.AIConfig
	log       *zap.Logger
}

// NewService creates the AI service and compiles the role-play chain.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		chain:     runnable,
		cfg:       cfg,
		log:       logger,
	}, nil
}

// StreamingEnabled indicates whether chat turns stream token deltas.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateText issues a single-shot generation request with a bounded
// output length.
func (s *Service) GenerateText(ctx context.Context, promptText string, maxTokens int) (string, error) {
	response, err := s.chatModel.Generate(ctx,
		[]*schema.Message{schema.UserMessage(promptText)},
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", apperr.Wrap(apperr.Generation, "text generation failed", err)
	}

	s.log.Debug("generated text", zap.Int("maxTokens", maxTokens), zap.Int("length", len(response.Content)))
	return response.Content, nil
}

// StreamConversation opens a streamed role-play turn carrying the scenario
// system prompt plus the transcript so far.
func (s *Service) StreamConversation(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, s.buildChainInput(systemPrompt, history, userMessage))
	if err != nil {
		return nil, apperr.Wrap(apperr.Generation, "stream AI chain output", err)
	}
	return stream, nil
}

// GenerateConversation is the non-streaming fallback for a role-play turn.
func (s *Service) GenerateConversation(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (*schema.Message, error) {
	response, err := s.chain.Invoke(ctx, s.buildChainInput(systemPrompt, history, userMessage))
	if err != nil {
		return nil, apperr.Wrap(apperr.Generation, "run AI chain", err)
	}
	return response, nil
}

func (s *Service) buildChainInput(systemPrompt string, history []chat.Message, userMessage string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": s.buildHistoryMessages(history),
		"query":   userMessage,
	}
}

func (s *Service) buildHistoryMessages(messages []chat.Message) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
