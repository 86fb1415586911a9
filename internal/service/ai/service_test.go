package ai

import (
	"testing"

	"github.com/cloodio/secchat/backend/internal/model/chat"
)

func TestBuildHistoryMessagesDropsTrailingUserEcho(t *testing.T) {
	history := []chat.Message{
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "answer"},
		{Role: chat.RoleUser, Content: "second"},
	}

	messages := buildHistoryMessages(history, "second")
	if len(messages) != 2 {
		t.Fatalf("expected trailing user echo dropped, got %d messages", len(messages))
	}
	if messages[1].Content != "answer" {
		t.Fatalf("unexpected last history message: %q", messages[1].Content)
	}
}

func TestBuildHistoryMessagesKeepsUnrelatedTail(t *testing.T) {
	history := []chat.Message{
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "answer"},
	}

	messages := buildHistoryMessages(history, "second")
	if len(messages) != 2 {
		t.Fatalf("expected full history, got %d messages", len(messages))
	}
}

func TestBuildHistoryMessagesEmpty(t *testing.T) {
	if messages := buildHistoryMessages(nil, "hello"); messages != nil {
		t.Fatalf("expected nil history, got %v", messages)
	}
}

func TestDefaultExecutionSettings(t *testing.T) {
	settings := DefaultExecutionSettings()

	if settings.FunctionChoice != FunctionChoiceAuto {
		t.Fatalf("expected auto function choice, got %s", settings.FunctionChoice)
	}
	if len(settings.ExcludedPlugins) != 1 || settings.ExcludedPlugins[0] != "ChatBot" {
		t.Fatalf("expected ChatBot exclusion, got %v", settings.ExcludedPlugins)
	}
}
