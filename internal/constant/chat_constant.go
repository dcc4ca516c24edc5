package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// DefaultLanguageCode is the session language until detection says
	// otherwise.
	DefaultLanguageCode = "en"

	// SessionAPIPrefix is the route group every chat endpoint hangs off.
	SessionAPIPrefix = "/assistant/v1"
)
