package plugins

import "testing"

func TestToolsFiltersExcludedPlugins(t *testing.T) {
	registry := NewRegistry(Builtin()...)

	tools := registry.Tools("ChatBot")
	for _, tool := range tools {
		if tool.Name == "chatbot_respond" {
			t.Fatalf("excluded plugin tool %s still offered", tool.Name)
		}
	}

	found := false
	for _, tool := range tools {
		if tool.Name == "threat_lookup" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected threat_lookup to survive the filter")
	}
}

func TestToolsWithoutExclusions(t *testing.T) {
	registry := NewRegistry(Builtin()...)

	tools := registry.Tools()
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
}
