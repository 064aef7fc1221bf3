package prompt

import (
	"fmt"
	"strings"
)

// Prompt assembly for the completion layer. Everything here is deterministic
// string concatenation: same inputs, same prompt, no hidden state.

const (
	chatPreamble = "You are a helpful AI assistant. Respond thoughtfully and contextually.\n\n"

	summaryPreamble = "You are an expert summarizer. Summarize the following conversation " +
		"into a concise, insightful summary highlighting key points, decisions, and topics.\n\n"

	titleInstruction = "Generate a short, descriptive title (max 50 characters) " +
		"for a conversation based on the first message:\n\n"

	queryPreamble = "Here are the past conversations:\n\n"

	queryInstruction = "Provide a detailed, insightful answer based on the above conversation data."

	// transcriptLimit caps the per-conversation transcript excerpt included in
	// detailed and comprehensive history queries.
	transcriptLimit = 500
)

// Message is one transcript line: a sender tag ("user" or "ai") and its text.
type Message struct {
	Sender  string
	Content string
}

// ConversationContext describes one candidate conversation for a history query.
type ConversationContext struct {
	ID         uint
	Title      string
	Date       string
	Summary    string
	Transcript string
}

// Chat renders the running transcript plus the new user turn, ending with the
// assistant cue the model completes.
func Chat(history []Message, userMessage string) string {
	var b strings.Builder
	b.WriteString(chatPreamble)
	for _, msg := range history {
		b.WriteString(displayRole(msg.Sender))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", userMessage)
	return b.String()
}

// Summary renders the full transcript under the summarizer preamble.
func Summary(history []Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(msg.Sender), msg.Content))
	}
	return summaryPreamble + strings.Join(lines, "\n")
}

// Title asks for a short conversation title derived from the first message.
func Title(firstMessage string) string {
	return titleInstruction + firstMessage
}

// HistoryQuery builds the combined context block for querying past
// conversations. Keywords and analysis depth only shape the prompt text; they
// are advisory for the model, not query predicates.
func HistoryQuery(contexts []ConversationContext, query string, keywords []string, depth string) string {
	var b strings.Builder
	b.WriteString(queryPreamble)
	for _, conv := range contexts {
		fmt.Fprintf(&b, "Conversation %d (%s):\n", conv.ID, conv.Date)
		fmt.Fprintf(&b, "Title: %s\n", conv.Title)
		fmt.Fprintf(&b, "Summary: %s\n", conv.Summary)
		if includeTranscript(depth) {
			fmt.Fprintf(&b, "Messages:\n%s\n", truncate(conv.Transcript, transcriptLimit))
		}
		b.WriteString("\n---\n\n")
	}

	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Focus on conversations containing these keywords: %s\n\n", strings.Join(keywords, ", "))
	}

	fmt.Fprintf(&b, "\n\nUser Query: %s\n\n%s", query, queryInstruction)
	return b.String()
}

// Transcript renders messages as plain "sender: content" lines for inclusion
// in a history-query context block.
func Transcript(history []Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}
	return strings.Join(lines, "\n")
}

func displayRole(sender string) string {
	if sender == "user" {
		return "User"
	}
	return "Assistant"
}

func includeTranscript(depth string) bool {
	return depth == "detailed" || depth == "comprehensive"
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
