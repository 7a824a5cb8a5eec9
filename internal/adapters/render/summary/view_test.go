package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/chat-distiller/internal/application"
	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/extract"
)

func TestRenderDistill(t *testing.T) {
	output, err := RenderDistill(Distill{
		Transcript: application.Transcript{
			ShareID:   "abc123",
			PageTitle: "Greeting test",
			Strategy:  extract.StrategyStream,
			Total:     2,
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "Hi"},
				{Role: domain.RoleAssistant, Content: "Hello!"},
			},
		},
		Output: "-",
		Stored: &application.StoreResult{Dir: "/data/greeting_test", Created: true},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Conversation distilled")
	assert.Contains(t, output, "share: abc123")
	assert.Contains(t, output, "Greeting test")
	assert.Contains(t, output, "source: stream chunks")
	assert.Contains(t, output, "messages: 2")
	assert.Contains(t, output, "[============------------]")
	assert.Contains(t, output, "user 1 / assistant 1")
	assert.Contains(t, output, "output: stdout")
	assert.Contains(t, output, "stored: /data/greeting_test (created)")
}

func TestRenderDistillShowsTail(t *testing.T) {
	output, err := RenderDistill(Distill{
		Transcript: application.Transcript{
			Strategy: extract.StrategyNextData,
			Total:    10,
			Messages: []domain.Message{{Role: domain.RoleAssistant, Content: "x"}},
		},
		Output: "messages.json",
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "source: __NEXT_DATA__ script")
	assert.Contains(t, output, "messages: 1 (last 1 of 10)")
	assert.Contains(t, output, "output: messages.json")
	assert.NotContains(t, output, "share:")
	assert.NotContains(t, output, "stored:")
}

func TestRenderDistillEmptyTranscript(t *testing.T) {
	output, err := RenderDistill(Distill{Transcript: application.Transcript{Messages: []domain.Message{}}}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "messages: 0")
	assert.Contains(t, output, "[------------------------]")
}

func TestRenderChats(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	output, err := RenderChats([]domain.ChatRecord{
		{
			ShareURL:      "https://chatgpt.com/share/abcdef123456",
			ShareID:       "abcdef123456",
			Title:         "greeting_test",
			LastUpdatedAt: now.Add(-3 * time.Hour),
			MessageCount:  4,
		},
		{
			ShareID:       "zz",
			Title:         "chat_zz",
			LastUpdatedAt: now.Add(-30 * time.Second),
			MessageCount:  1,
		},
	}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "chats: 2")
	assert.Contains(t, output, "greeting_test (abcdef12)")
	assert.Contains(t, output, "4 messages")
	assert.Contains(t, output, "updated 3 hours ago")
	assert.Contains(t, output, "updated just now")
	assert.Contains(t, output, "https://chatgpt.com/share/abcdef123456")
}

func TestRenderChatsEmpty(t *testing.T) {
	output, err := RenderChats(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "chats: 0")
	assert.Contains(t, output, "No chats stored yet.")
}

func TestFormatUpdated(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updatedAt time.Time
		now       time.Time
		want      string
	}{
		{name: "zero", want: "never updated"},
		{name: "no clock", updatedAt: now, want: "updated 12:00 on 02 Mar 2026"},
		{name: "one minute", updatedAt: now.Add(-time.Minute), now: now, want: "updated 1 minute ago"},
		{name: "minutes", updatedAt: now.Add(-42 * time.Minute), now: now, want: "updated 42 minutes ago"},
		{name: "days", updatedAt: now.Add(-50 * time.Hour), now: now, want: "updated 2 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUpdated(tt.updatedAt, tt.now))
		})
	}
}
