package domain

// Message is a direct message within a conversation.
// Conversation IDs are UUIDs minted when the first message is sent.
type Message struct {
	Record
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Content        string `json:"content"`
}
