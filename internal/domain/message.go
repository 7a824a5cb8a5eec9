package domain

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Conversational reports whether messages with this role belong in a transcript.
func (r Role) Conversational() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one user or assistant turn of a rebuilt transcript.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Tail keeps the last n messages. Negative n keeps everything.
func Tail(messages []Message, n int) []Message {
	if n < 0 || n >= len(messages) {
		return messages
	}
	if n == 0 {
		return []Message{}
	}

	return messages[len(messages)-n:]
}

// CountRoles returns the number of user and assistant messages.
func CountRoles(messages []Message) (user int, assistant int) {
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			user++
		case RoleAssistant:
			assistant++
		}
	}
	return user, assistant
}

// SerializeTranscript renders messages as tagged plain-text blocks:
//
//	[USER]
//	question
//
//	[ASSISTANT]
//	answer
func SerializeTranscript(messages []Message) string {
	blocks := make([]string, 0, len(messages)*3)
	for _, m := range messages {
		blocks = append(blocks, "["+strings.ToUpper(string(m.Role))+"]", m.Content, "")
	}

	for len(blocks) > 0 && blocks[len(blocks)-1] == "" {
		blocks = blocks[:len(blocks)-1]
	}

	return strings.Join(blocks, "\n")
}
