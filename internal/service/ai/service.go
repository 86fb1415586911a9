package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/cloodio/secchat/backend/internal/config"
	"github.com/cloodio/secchat/backend/internal/model/chat"
	"github.com/cloodio/secchat/backend/internal/service/ai/plugins"
)

const systemPrompt = "You are Cloodio's cybersecurity assistant. Answer precisely and flag anything that needs escalation."

// Service creates completion connections against the configured backend.
type Service struct {
	cfg      config.AIConfig
	registry *plugins.Registry
}

// NewService returns a connection factory over the given configuration and
// plugin registry. Credentials are not checked until a connection is built.
func NewService(cfg config.AIConfig, registry *plugins.Registry) *Service {
	return &Service{cfg: cfg, registry: registry}
}

// NewConn builds a fresh completion handle. The execution settings are bound
// once here and govern every invocation made through the handle: under
// FunctionChoiceAuto the model is offered the tool surface of every plugin
// the settings do not exclude.
func (s *Service) NewConn(ctx context.Context, settings ExecutionSettings) (*Conn, error) {
	chatModel, err := s.cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	if settings.FunctionChoice == FunctionChoiceAuto {
		if tools := s.registry.Tools(settings.ExcludedPlugins...); len(tools) > 0 {
			if err := chatModel.BindTools(tools); err != nil {
				return nil, fmt.Errorf("failed to bind tools: %w", err)
			}
		}
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
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Conn{chain: runnable, streaming: s.cfg.StreamResponse}, nil
}

// Conn is one session's handle onto the completion backend.
type Conn struct {
	chain     compose.Runnable[map[string]any, *schema.Message]
	streaming bool
}

// Streaming indicates whether responses arrive as incremental fragments.
func (c *Conn) Streaming() bool {
	return c.streaming
}

// Stream runs one completion over the transcript and the new user input,
// returning the backend's fragment stream.
func (c *Conn) Stream(ctx context.Context, history []chat.Message, userInput string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := c.chain.Stream(ctx, buildChainInput(history, userInput))
	if err != nil {
		return nil, fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	return stream, nil
}

// Generate runs one completion and returns the full response at once.
func (c *Conn) Generate(ctx context.Context, history []chat.Message, userInput string) (*schema.Message, error) {
	response, err := c.chain.Invoke(ctx, buildChainInput(history, userInput))
	if err != nil {
		return nil, fmt.Errorf("failed to run chat chain: %w", err)
	}
	return response, nil
}

func buildChainInput(history []chat.Message, userInput string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history, userInput),
		"query":   userInput,
	}
}

// buildHistoryMessages converts the transcript for the prompt placeholder.
// The new user input is rendered by the query slot, so a trailing transcript
// entry holding the same text is dropped to avoid repeating it.
func buildHistoryMessages(history []chat.Message, userInput string) []*schema.Message {
	if n := len(history); n > 0 && history[n-1].Role == chat.RoleUser && history[n-1].Content == userInput {
		history = history[:n-1]
	}

	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return messages
}
