package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Sent as the system message on every chat turn.
	ChatSystemPrompt = "You are a helpful document QA assistant. You can answer questions about uploaded documents and maintain context across the conversation. Be concise and accurate in your responses."

	// Wraps the user message when the session holds a document.
	// Arguments: document context block, user message.
	ChatAugmentedPromptTemplate = "Context from uploaded document:\n%s\n\nUser question: %s"

	// Context block handed to the model. Byte-stable because it becomes part
	// of the prompt. Arguments: filename, page count, cleaned text.
	DocumentContextTemplate = "Document: %s\nPages: %d\nContent:\n%s"

	// Watermill topic carrying SessionActivityMessage payloads.
	SessionActivityTopic = "session.activity"

	// API surface identity
	APITitle   = "Document QA Chatbot API"
	APIVersion = "0.1.0"
)
