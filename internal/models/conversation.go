package models

// MessageType distinguishes the two sides of a conversation.
type MessageType string

const (
	MessageTypeUser      MessageType = "user_message"
	MessageTypeAssistant MessageType = "assistant_message"
)

// Message is a single conversation entry.
type Message struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Conversation is the ordered message history of an agent.
// It is no longer retrievable once the agent is deleted.
type Conversation struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Role returns the display label for the message author.
func (m Message) Role() string {
	if m.Type == MessageTypeUser {
		return "USER"
	}
	return "ASSISTANT"
}
