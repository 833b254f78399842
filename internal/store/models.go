package store

// DefaultChatTitle is the title given to a chat before its first
// message; the first user message replaces it.
const DefaultChatTitle = "New Chat"

type User struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// MessagePair is one exchange: the user's message and the bot's reply.
type MessagePair struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

type Chat struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []MessagePair `json:"messages"`
}
