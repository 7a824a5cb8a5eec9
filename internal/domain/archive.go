package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bnema/chat-distiller/internal/jsonv"
)

const ArchiveVersion = "2.0"

type Archive struct {
	Meta         ArchiveMeta    `json:"meta"`
	Conversation []ArchiveEntry `json:"conversation"`
}

type ArchiveMeta struct {
	TotalMessages         int    `json:"total_messages"`
	UserMessageCount      int    `json:"user_message_count"`
	AssistantMessageCount int    `json:"assistant_message_count"`
	GeneratedAt           string `json:"generated_at"`
	Version               string `json:"version"`
}

type ArchiveEntry struct {
	Index          int    `json:"index"`
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	CharacterCount int    `json:"character_count"`
}

// NewArchive indexes messages in order and summarises them.
func NewArchive(messages []Message, generatedAt time.Time) Archive {
	conversation := make([]ArchiveEntry, 0, len(messages))
	for i, m := range messages {
		conversation = append(conversation, ArchiveEntry{
			Index:          i,
			Role:           m.Role,
			Content:        m.Content,
			CharacterCount: utf8.RuneCountInString(m.Content),
		})
	}

	user, assistant := CountRoles(messages)

	return Archive{
		Meta: ArchiveMeta{
			TotalMessages:         len(conversation),
			UserMessageCount:      user,
			AssistantMessageCount: assistant,
			GeneratedAt:           generatedAt.UTC().Truncate(time.Second).Format(time.RFC3339),
			Version:               ArchiveVersion,
		},
		Conversation: conversation,
	}
}

// Messages drops the archive bookkeeping and returns the plain messages.
func (a Archive) Messages() []Message {
	messages := make([]Message, 0, len(a.Conversation))
	for _, entry := range a.Conversation {
		messages = append(messages, Message{Role: entry.Role, Content: entry.Content})
	}
	return messages
}

// MergeArchives concatenates a's messages and b's messages into a fresh archive.
func MergeArchives(a, b Archive, generatedAt time.Time) Archive {
	merged := append(a.Messages(), b.Messages()...)
	return NewArchive(merged, generatedAt)
}

// DecodeMessages validates a JSON array of {role, content} objects.
func DecodeMessages(raw []byte) ([]Message, error) {
	v, err := jsonv.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: input is not valid JSON", ErrArchive)
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: input must be a JSON array of messages", ErrArchive)
	}

	messages := make([]Message, 0, len(v.Items()))
	for i, item := range v.Items() {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: message at index %d must be an object", ErrArchive, i)
		}
		if !item.Object().Has("role") {
			return nil, fmt.Errorf("%w: message at index %d missing required field: role", ErrArchive, i)
		}
		if !item.Object().Has("content") {
			return nil, fmt.Errorf("%w: message at index %d missing required field: content", ErrArchive, i)
		}

		m, err := decodeMessage(item, "message", i)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, nil
}

// DecodeArchive validates the conversation of a previously built archive.
func DecodeArchive(raw []byte) (Archive, error) {
	v, err := jsonv.Parse(string(raw))
	if err != nil {
		return Archive{}, fmt.Errorf("%w: archive is not valid JSON", ErrArchive)
	}
	if !v.IsObject() {
		return Archive{}, fmt.Errorf("%w: archive must be a JSON object", ErrArchive)
	}

	conversation, ok := v.Get("conversation")
	if !ok || !conversation.IsArray() {
		return Archive{}, fmt.Errorf("%w: archive missing required field: conversation", ErrArchive)
	}

	messages := make([]Message, 0, len(conversation.Items()))
	for i, item := range conversation.Items() {
		if !item.IsObject() {
			return Archive{}, fmt.Errorf("%w: conversation item at index %d must be an object", ErrArchive, i)
		}
		m, err := decodeMessage(item, "conversation item", i)
		if err != nil {
			return Archive{}, err
		}
		messages = append(messages, m)
	}

	archive := NewArchive(messages, time.Time{})
	if meta, ok := v.Get("meta"); ok {
		if generatedAt, ok := meta.Get("generated_at"); ok {
			archive.Meta.GeneratedAt, _ = generatedAt.Str()
		}
	}

	return archive, nil
}

func decodeMessage(item jsonv.Value, what string, index int) (Message, error) {
	roleValue, _ := item.Get("role")
	role, ok := roleValue.Str()
	if !ok || !Role(role).Conversational() {
		return Message{}, fmt.Errorf("%w: %s at index %d has invalid role %q (must be 'user' or 'assistant')", ErrArchive, what, index, roleValue.Text())
	}

	contentValue, _ := item.Get("content")
	content, ok := contentValue.Str()
	if !ok {
		return Message{}, fmt.Errorf("%w: %s at index %d content must be a string", ErrArchive, what, index)
	}

	return Message{Role: Role(role), Content: content}, nil
}
