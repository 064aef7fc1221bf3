package prompt_test

import (
	"strings"
	"testing"

	"github.com/dev-9820/AI-chat-summariser/internal/domain/prompt"
)

func TestChat(t *testing.T) {
	tests := []struct {
		name    string
		history []prompt.Message
		message string
		want    string
	}{
		{
			name:    "no history",
			history: nil,
			message: "Hi",
			want: "You are a helpful AI assistant. Respond thoughtfully and contextually.\n\n" +
				"User: Hi\nAssistant:",
		},
		{
			name: "with history",
			history: []prompt.Message{
				{Sender: "user", Content: "What is Go?"},
				{Sender: "ai", Content: "A language."},
			},
			message: "Who made it?",
			want: "You are a helpful AI assistant. Respond thoughtfully and contextually.\n\n" +
				"User: What is Go?\n" +
				"Assistant: A language.\n" +
				"User: Who made it?\nAssistant:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompt.Chat(tt.history, tt.message)
			if got != tt.want {
				t.Errorf("Chat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatDeterministic(t *testing.T) {
	history := []prompt.Message{{Sender: "user", Content: "hello"}}
	if prompt.Chat(history, "again") != prompt.Chat(history, "again") {
		t.Error("identical inputs must produce identical prompts")
	}
}

func TestSummary(t *testing.T) {
	got := prompt.Summary([]prompt.Message{
		{Sender: "user", Content: "hi"},
		{Sender: "ai", Content: "hello"},
	})

	if !strings.HasPrefix(got, "You are an expert summarizer.") {
		t.Errorf("missing summarizer preamble: %q", got)
	}
	if !strings.Contains(got, "USER: hi") || !strings.Contains(got, "AI: hello") {
		t.Errorf("transcript lines must use uppercased senders: %q", got)
	}
}

func TestTitle(t *testing.T) {
	got := prompt.Title("How do goroutines work?")
	if !strings.Contains(got, "max 50 characters") {
		t.Errorf("missing length instruction: %q", got)
	}
	if !strings.HasSuffix(got, "How do goroutines work?") {
		t.Errorf("first message must close the prompt: %q", got)
	}
}

func TestHistoryQuery(t *testing.T) {
	contexts := []prompt.ConversationContext{
		{
			ID:         3,
			Title:      "Go talk",
			Date:       "2026-03-01 09:30",
			Summary:    "About Go.",
			Transcript: "user: hi\nai: hello",
		},
	}

	t.Run("basic depth omits transcript", func(t *testing.T) {
		got := prompt.HistoryQuery(contexts, "what happened?", nil, "basic")
		if !strings.HasPrefix(got, "Here are the past conversations:\n\n") {
			t.Errorf("missing preamble: %q", got)
		}
		if !strings.Contains(got, "Conversation 3 (2026-03-01 09:30):") {
			t.Errorf("missing conversation header: %q", got)
		}
		if strings.Contains(got, "Messages:") {
			t.Error("basic depth must not include transcripts")
		}
		if !strings.Contains(got, "User Query: what happened?") {
			t.Errorf("missing query line: %q", got)
		}
	})

	t.Run("detailed depth includes transcript", func(t *testing.T) {
		got := prompt.HistoryQuery(contexts, "q", nil, "detailed")
		if !strings.Contains(got, "Messages:\nuser: hi\nai: hello") {
			t.Errorf("detailed depth must include the transcript: %q", got)
		}
	})

	t.Run("transcript truncated at 500", func(t *testing.T) {
		long := prompt.ConversationContext{
			ID:         1,
			Title:      "long",
			Date:       "2026-01-01 00:00",
			Summary:    "s",
			Transcript: strings.Repeat("x", 900),
		}
		got := prompt.HistoryQuery([]prompt.ConversationContext{long}, "q", nil, "comprehensive")
		if strings.Contains(got, strings.Repeat("x", 501)) {
			t.Error("transcript excerpt must be capped at 500 characters")
		}
		if !strings.Contains(got, strings.Repeat("x", 500)) {
			t.Error("transcript excerpt must keep the first 500 characters")
		}
	})

	t.Run("keywords decorate the prompt", func(t *testing.T) {
		got := prompt.HistoryQuery(contexts, "q", []string{"go", "channels"}, "basic")
		if !strings.Contains(got, "Focus on conversations containing these keywords: go, channels") {
			t.Errorf("missing keyword focus line: %q", got)
		}
	})

	t.Run("no keywords no focus line", func(t *testing.T) {
		got := prompt.HistoryQuery(contexts, "q", nil, "basic")
		if strings.Contains(got, "Focus on conversations") {
			t.Error("unexpected keyword focus line")
		}
	})
}

func TestTranscript(t *testing.T) {
	got := prompt.Transcript([]prompt.Message{
		{Sender: "user", Content: "hi"},
		{Sender: "ai", Content: "hello"},
	})
	want := "user: hi\nai: hello"
	if got != want {
		t.Errorf("Transcript() = %q, want %q", got, want)
	}
}
