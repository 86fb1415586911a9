package chat

import "testing"

func TestTranscriptAppendKeepsOrder(t *testing.T) {
	transcript := NewTranscript()

	transcript.Append(Message{Role: RoleUser, Content: "first"})
	transcript.Append(Message{Role: RoleAssistant, Content: "second"})
	transcript.Append(Message{Role: RoleUser, Content: "third"})

	messages := transcript.Snapshot()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if messages[i].Content != want {
			t.Fatalf("message %d: got %q want %q", i, messages[i].Content, want)
		}
	}
}

func TestTranscriptSnapshotIsACopy(t *testing.T) {
	transcript := NewTranscript()
	transcript.Append(Message{Role: RoleUser, Content: "hello"})

	snapshot := transcript.Snapshot()
	snapshot[0].Content = "mutated"

	if got := transcript.Snapshot()[0].Content; got != "hello" {
		t.Fatalf("snapshot mutation leaked into transcript: %q", got)
	}

	transcript.Append(Message{Role: RoleAssistant, Content: "hi"})
	if len(snapshot) != 1 {
		t.Fatalf("expected earlier snapshot to stay at 1 message, got %d", len(snapshot))
	}
}
