package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShareURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "chatgpt", url: "https://chatgpt.com/share/abc-123"},
		{name: "legacy host", url: "https://chat.openai.com/share/abc"},
		{name: "http upper scheme", url: "HTTP://chatgpt.com/share/abc"},
		{name: "empty", url: "  ", wantErr: "empty url"},
		{name: "no scheme", url: "chatgpt.com/share/abc", wantErr: "must start with http:// or https://"},
		{name: "other host", url: "https://example.com/share/abc", wantErr: "expected a public ChatGPT share URL"},
		{name: "not a share path", url: "https://chatgpt.com/c/abc", wantErr: "expected a public ChatGPT share URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShareURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidShareURL)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseShareID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    ShareID
		wantErr bool
	}{
		{name: "plain", url: "https://chatgpt.com/share/6789abcd-ef01-2345", want: "6789abcd-ef01-2345"},
		{name: "query stops id", url: "https://chatgpt.com/share/abc_DEF?model=x", want: "abc_DEF"},
		{name: "trailing path", url: "https://chatgpt.com/share/abc/continue", want: "abc"},
		{name: "empty", url: "", wantErr: true},
		{name: "no share segment", url: "https://chatgpt.com/c/abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShareID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShareURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdef12", ShareID("abcdef123456").ShortID())
	assert.Equal(t, "abc", ShareID("abc").ShortID())
	assert.Equal(t, "", ShareID("").ShortID())
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Greeting test", want: "greeting_test"},
		{title: "  Hello,   World! ", want: "hello_world"},
		{title: "C++ / Go: tips & tricks", want: "c_go_tips_tricks"},
		{title: "__already__snake__", want: "already_snake"},
		{title: "日本語", want: ""},
		{title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.title))
		})
	}
}

func TestChatTitle(t *testing.T) {
	assert.Equal(t, "greeting_test", ChatTitle("abcdef123456", "Greeting test"))
	assert.Equal(t, "chat_abcdef12", ChatTitle("abcdef123456", ""))
	assert.Equal(t, "chat_abcdef12", ChatTitle("abcdef123456", "!!!"))
}
